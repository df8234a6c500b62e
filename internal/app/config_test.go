package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfigYAML = `
telegram:
  token: "123456:test-token"
  admin_id: 900001
  run_mode: longpoll
logging:
  level: info
  format: kv
shop:
  download_link_url: "https://example.org/album"
  payment_text: "Pay to account 123456789 and send a screenshot."
  cover_source: "assets/cover.jpg"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Telegram.AdminID != 900001 {
		t.Errorf("AdminID = %d", cfg.Telegram.AdminID)
	}
	if cfg.Shop.DownloadLinkURL != "https://example.org/album" {
		t.Errorf("DownloadLinkURL = %q", cfg.Shop.DownloadLinkURL)
	}
	if !cfg.Shop.PhoneValidationEnabled() {
		t.Error("phone validation should default to enabled")
	}
	if core := cfg.CoreConfig(); core == nil || core.Telegram.Token != "123456:test-token" {
		t.Errorf("CoreConfig = %+v", core)
	}
}

func TestLoadConfigPhoneValidationDisabled(t *testing.T) {
	body := validConfigYAML + "  phone_validation: false\n"
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shop.PhoneValidationEnabled() {
		t.Error("phone validation should be disabled")
	}
}

func TestLoadConfigMissingShopFields(t *testing.T) {
	cases := []struct {
		name string
		drop string
		want string
	}{
		{"link", "download_link_url", "shop.download_link_url"},
		{"payment", "payment_text", "shop.payment_text"},
		{"cover", "cover_source", "shop.cover_source"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var lines []string
			for _, line := range strings.Split(validConfigYAML, "\n") {
				if strings.Contains(line, tc.drop) {
					continue
				}
				lines = append(lines, line)
			}
			_, err := LoadConfig(writeConfig(t, strings.Join(lines, "\n")))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SHOP_DOWNLOAD_LINK_URL", "https://override.example.org")
	t.Setenv("TELEGRAM_ADMIN_ID", "424242")

	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Shop.DownloadLinkURL != "https://override.example.org" {
		t.Errorf("DownloadLinkURL = %q, env override lost", cfg.Shop.DownloadLinkURL)
	}
	if cfg.Telegram.AdminID != 424242 {
		t.Errorf("AdminID = %d, env override lost", cfg.Telegram.AdminID)
	}
}
