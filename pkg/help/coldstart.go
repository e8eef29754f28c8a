// Package help holds the text printed by `cp-hints quickstart`.
package help

const ColdstartYAML = `# cp-hints Quick Start

setup:
  save_key: |
    cp-hints config set-key <your Gemini API key>
  or_env: |
    export GEMINI_API_KEY=<key>   # also read from .env; wins over the saved key
  check: |
    cp-hints config show

commands:
  hints: |
    cp-hints hints --url "https://leetcode.com/problems/two-sum/"
  hints_from_saved_page: |
    cp-hints hints --url "https://codeforces.com/problemset/problem/4/A" --file watermelon.html
  hints_into_page: |
    cp-hints hints --url "https://leetcode.com/problems/two-sum/" --out two-sum.html --open
  extract_only: |
    cp-hints extract --url "https://codeforces.com/contest/1850/problem/B1"
  relay_server: |
    cp-hints serve --addr 127.0.0.1:8787
  via_relay: |
    cp-hints hints --url "https://leetcode.com/problems/two-sum/" --relay http://127.0.0.1:8787
  history: |
    cp-hints history --limit 10

supported_pages:
  - "leetcode.com/problems/<slug>/ (embedded page state first, DOM selectors as fallback)"
  - "codeforces.com/problemset/problem/<contest>/<index>"
  - "codeforces.com/contest/<contest>/problem/<index>"

relay_http:
  request: 'POST /hints {"action":"getHints","problemInfo":{...}}'
  response: '{"success":true,"hints":"* ..."} or {"success":false,"error":"..."}'
  message_id: "X-Message-ID header, generated when absent"
  health: "GET /healthz"

behavior:
  - "Problem statements are cut to the first 4000 characters before prompting"
  - "One completion call per request, no retries"
  - "Fetched pages are cached for 1h (--max-age, --force-fetch)"
  - "Every request is recorded in the local SQLite history"

config_file:
  path: "cp-hints.yaml (--config)"
  keys: [model, endpoint, request_timeout, settle_delay, db_path, listen_addr, allowed_origins, cache_dir, cache_ttl]

error_behavior:
  - "No problem on the page: nothing is sent to the model"
  - "Missing API key: reported before any network call"
  - "Exit codes: 0=hints shown, 1=error"
`
