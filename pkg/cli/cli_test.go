package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/idswatch/pkg/cli"
	"github.com/secmon-lab/idswatch/pkg/service/password"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := cli.RunWithWriter(t.Context(), append([]string{"idswatch", "--log-quiet"}, args...), &buf)
	return buf.String(), err
}

func TestHashPassword(t *testing.T) {
	t.Run("prints a verifiable hash", func(t *testing.T) {
		out, err := runCLI(t, "hash-password", "--password", "s3cure-passphrase")
		gt.NoError(t, err).Required()

		hash := strings.TrimSpace(out)
		gt.True(t, password.IsHash(hash))
		gt.True(t, password.Verify("s3cure-passphrase", hash))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := runCLI(t, "hash-password", "--password", "short")
		gt.Error(t, err)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		_, err := runCLI(t, "hash-password", "--password", "ñññññññ")
		gt.Error(t, err)
	})
}

func TestAlertCommand(t *testing.T) {
	t.Run("filters embedded seed", func(t *testing.T) {
		out, err := runCLI(t, "alert", "--severity", "Alta", "--page-size", "2")
		gt.NoError(t, err).Required()

		var resp struct {
			Results []map[string]any `json:"results"`
			Meta    struct {
				TotalItems int `json:"totalItems"`
				TotalPages int `json:"totalPages"`
			} `json:"meta"`
		}
		gt.NoError(t, json.Unmarshal([]byte(out), &resp)).Required()
		gt.A(t, resp.Results).Length(2)
		gt.Equal(t, resp.Meta.TotalItems, 3)
		gt.Equal(t, resp.Meta.TotalPages, 2)
	})

	t.Run("summary of a custom seed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "alerts.yaml")
		gt.NoError(t, os.WriteFile(path, []byte(`
- id: "x1"
  timestamp: "2025-10-01T10:00:00Z"
  severity: Alta
  type: Ransomware
  status: Nueva
- id: "x2"
  timestamp: "2025-10-02T10:00:00Z"
  severity: Baja
  type: Ransomware
  status: Cerrada
  acknowledged: true
`), 0600)).Required()

		out, err := runCLI(t, "alert", "summary", "--seed-alerts", path)
		gt.NoError(t, err).Required()

		var summary struct {
			Total    int            `json:"total"`
			ByType   map[string]int `json:"byType"`
			ByStatus map[string]int `json:"byStatus"`
		}
		gt.NoError(t, json.Unmarshal([]byte(out), &summary)).Required()
		gt.Equal(t, summary.Total, 2)
		gt.Equal(t, summary.ByType["Ransomware"], 2)
		gt.Equal(t, summary.ByStatus["Cerrada"], 1)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := runCLI(t, "alert", "--sort-by", "nonexistent")
		gt.Error(t, err)
	})

	t.Run("missing seed file", func(t *testing.T) {
		_, err := runCLI(t, "alert", "--seed-alerts", filepath.Join(t.TempDir(), "missing.yaml"))
		gt.Error(t, err)
	})
}

func TestServeCommandValidation(t *testing.T) {
	t.Run("negative login rate", func(t *testing.T) {
		_, err := runCLI(t, "serve", "--login-rate", "-1")
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("--login-rate")
	})

	t.Run("broken seed users", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "users.yaml")
		gt.NoError(t, os.WriteFile(path, []byte("- id: u1\n  email: no-at-sign\n  password: long-enough\n"), 0600)).Required()

		_, err := runCLI(t, "serve", "--seed-users", path)
		gt.Error(t, err)
	})
}
