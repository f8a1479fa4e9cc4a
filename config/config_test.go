package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DRY_RUN":     "true",
		"CONFIG_FILE": "",
		"DAY_COLUMNS": "",
		"SMTP_PORT":   "",
		"MENU_PAGE":   "",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SMTPPort != 465 {
		t.Errorf("SMTPPort = %d, want 465", cfg.SMTPPort)
	}
	if cfg.MenuPage != 2 {
		t.Errorf("MenuPage = %d, want 2", cfg.MenuPage)
	}
	if want := []int{4, 8, 12, 16, 20}; !reflect.DeepEqual(cfg.DayColumns, want) {
		t.Errorf("DayColumns = %v, want %v", cfg.DayColumns, want)
	}
}

func TestLoadLists(t *testing.T) {
	setEnv(t, map[string]string{
		"DRY_RUN":          "true",
		"FILTER_WORDS":     "schwein, rind ,",
		"FILTER_ALLERGENS": "soja",
		"RECIPIENTS":       "a@example.org,b@example.org",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"schwein", "rind"}; !reflect.DeepEqual(cfg.FilterWords, want) {
		t.Errorf("FilterWords = %v, want %v", cfg.FilterWords, want)
	}
	if len(cfg.Recipients) != 2 {
		t.Errorf("Recipients = %v", cfg.Recipients)
	}
}

func TestLoadRequiresSMTP(t *testing.T) {
	setEnv(t, map[string]string{
		"DRY_RUN":       "false",
		"SMTP_EMAIL":    "",
		"SMTP_PASSWORD": "",
		"RECIPIENTS":    "",
	})

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error without SMTP settings")
	}
}

func TestLoadConfigFileOverridesLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mensamail.yaml")
	content := "filter_words:\n  - schwein\nfilter_allergens:\n  - soja\n  - sellerie\nrecipients:\n  - c@example.org\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	setEnv(t, map[string]string{
		"DRY_RUN":      "true",
		"FILTER_WORDS": "rind",
		"CONFIG_FILE":  path,
	})

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"schwein"}; !reflect.DeepEqual(cfg.FilterWords, want) {
		t.Errorf("FilterWords = %v, want %v (file overrides env)", cfg.FilterWords, want)
	}
	if want := []string{"soja", "sellerie"}; !reflect.DeepEqual(cfg.FilterAllergens, want) {
		t.Errorf("FilterAllergens = %v, want %v", cfg.FilterAllergens, want)
	}
	if want := []string{"c@example.org"}; !reflect.DeepEqual(cfg.Recipients, want) {
		t.Errorf("Recipients = %v, want %v", cfg.Recipients, want)
	}
}

func TestLoadRejectsBadColumns(t *testing.T) {
	setEnv(t, map[string]string{
		"DRY_RUN":     "true",
		"DAY_COLUMNS": "1,2,3",
	})

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wrong column count")
	}
}
