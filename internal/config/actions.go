package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/cp-hints/internal/common"
	"github.com/dtnitsch/cp-hints/pkg/settings"
)

// SetKeyAction stores the API key given as the first argument.
func SetKeyAction(c *cli.Context) error {
	rt, err := common.Setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Written to the database even when the environment overrides reads.
	if err := settings.SetAPIKey(c.Context, settings.NewSQLStore(rt.DB), c.Args().First()); err != nil {
		pterm.Error.Println(err.Error())
		return cli.Exit("", 1)
	}

	pterm.Success.Println("API Key saved!")
	if os.Getenv(common.EnvAPIKey) != "" {
		pterm.Warning.Printfln("%s is set and takes precedence over the saved key", common.EnvAPIKey)
	}
	return nil
}

// ShowOutput is what `config show` prints.
type ShowOutput struct {
	Model          string   `yaml:"model"`
	Endpoint       string   `yaml:"endpoint"`
	RequestTimeout string   `yaml:"request_timeout"`
	SettleDelay    string   `yaml:"settle_delay"`
	Database       string   `yaml:"database"`
	ListenAddr     string   `yaml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	APIKey         string   `yaml:"api_key"`
	APIKeySource   string   `yaml:"api_key_source"`
}

// ShowAction prints the effective configuration with the key masked.
func ShowAction(c *cli.Context) error {
	rt, err := common.Setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	key, err := settings.APIKey(c.Context, rt.Store)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	source := "none"
	switch {
	case strings.TrimSpace(os.Getenv(common.EnvAPIKey)) != "":
		source = "env:" + common.EnvAPIKey
	case key != "":
		source = "database"
	}

	out := ShowOutput{
		Model:          rt.Config.Model,
		Endpoint:       rt.Config.Endpoint,
		RequestTimeout: rt.Config.RequestTimeout.String(),
		SettleDelay:    rt.Config.SettleDelay.String(),
		Database:       rt.DB.Path(),
		ListenAddr:     rt.Config.ListenAddr,
		AllowedOrigins: rt.Config.AllowedOrigins,
		APIKey:         settings.Mask(key),
		APIKeySource:   source,
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(out)
}
