package models

// Platform identifies the judge a problem page belongs to.
type Platform string

const (
	PlatformLeetCode   Platform = "LeetCode"
	PlatformCodeforces Platform = "Codeforces"
)

// ProblemInfo is a snapshot of a problem page. It is not mutated after
// extraction; senders hand a Clone to the message channel.
type ProblemInfo struct {
	Platform   Platform `json:"platform" yaml:"platform"`
	Title      string   `json:"title" yaml:"title"`
	Slug       *string  `json:"slug,omitempty" yaml:"slug,omitempty"`
	ContestID  *string  `json:"contestId,omitempty" yaml:"contest_id,omitempty"`
	Index      *string  `json:"index,omitempty" yaml:"index,omitempty"`
	Difficulty *string  `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Tags       []string `json:"tags" yaml:"tags"`
	Content    string   `json:"content" yaml:"content"`
}

// Clone returns a deep copy.
func (p *ProblemInfo) Clone() *ProblemInfo {
	if p == nil {
		return nil
	}
	c := *p
	c.Slug = cloneString(p.Slug)
	c.ContestID = cloneString(p.ContestID)
	c.Index = cloneString(p.Index)
	c.Difficulty = cloneString(p.Difficulty)
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or fallback when nil.
func Deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
