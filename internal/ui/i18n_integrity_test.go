package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-biorhythm/internal/config"
)

var translationKeys = []string{
	config.TKeyWinChart,
	config.TKeyWinSettings,
	config.TKeyMenuOpen,
	config.TKeyMenuRefresh,
	config.TKeyMenuSettings,
	config.TKeyTrayStatus,
	config.TKeyTrayNoData,
	config.TKeyNotifStart,
	config.TKeyNotifSuccess,
	config.TKeyNotifError,
	config.TKeyLblBirthDate,
	config.TKeyLblMonth,
	config.TKeyBtnPrevMonth,
	config.TKeyBtnNextMonth,
	config.TKeyBtnToday,
	config.TKeyCyclePhys,
	config.TKeyCycleEmo,
	config.TKeyCycleIntel,
	config.TKeyStatusToday,
	config.TKeyStatusOutside,
	config.TKeyStatusInvalid,
	config.TKeyStatusEmpty,
	config.TKeyStatusSubject,
	config.TKeyStatusWaiting,
	config.TKeyStatusFailed,
	config.TKeyModeManual,
	config.TKeyModeLocal,
	config.TKeyModeCardDAV,
	config.TKeyLblLanguage,
	config.TKeyHelpLanguage,
	config.TKeyLblMinutes,
	config.TKeyLblRefresh,
	config.TKeyHelpInterval,
	config.TKeyLblPort,
	config.TKeyHelpPort,
	config.TKeyLblGeneral,
	config.TKeyLblSource,
	config.TKeyLblContact,
	config.TKeyHelpContact,
	config.TKeyLblURL,
	config.TKeyHelpURL,
	config.TKeyLblUser,
	config.TKeyLblPass,
	config.TKeyBtnBrowse,
	config.TKeyBtnSave,
	config.TKeyBtnCancel,
	config.TKeyLblFooter,
	config.TKeyEvtCritical,
	config.TKeyErrPortReq,
	config.TKeyErrPortNum,
	config.TKeyErrPortRange,
	config.TKeyErrDate,
	config.TKeyErrMonth,
}

// templated keys must keep their placeholders in every language.
var templateFields = map[string][]string{
	config.TKeyTrayStatus:    {"{{.Physical}}", "{{.Emotional}}", "{{.Intellectual}}"},
	config.TKeyStatusToday:   {"{{.Physical}}", "{{.Emotional}}", "{{.Intellectual}}"},
	config.TKeyStatusSubject: {"{{.Name}}"},
	config.TKeyEvtCritical:   {"{{.Cycle}}"},
	config.TKeyLblFooter:     {"%s"},
}

func loadLocale(t *testing.T, lang string) map[string]string {
	t.Helper()
	name := "active." + lang + ".json"
	content, err := os.ReadFile(filepath.Join("locales", name))
	if os.IsNotExist(err) {
		content, err = os.ReadFile(filepath.Join("..", "..", "internal", "ui", "locales", name))
	}
	require.NoError(t, err, "Must load %s", name)

	var messages map[string]string
	require.NoError(t, json.Unmarshal(content, &messages), "%s must be a flat JSON object", name)
	return messages
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in each locale file, and that no locale carries unknown keys.
func TestI18nIntegrity(t *testing.T) {
	known := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		known[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			messages := loadLocale(t, lang)

			for _, key := range translationKeys {
				msg, ok := messages[key]
				if assert.Truef(t, ok, "Key '%s' is missing in active.%s.json", key, lang) {
					assert.NotEmptyf(t, strings.TrimSpace(msg), "Key '%s' is blank in active.%s.json", key, lang)
				}
			}

			for key, fields := range templateFields {
				for _, f := range fields {
					assert.Containsf(t, messages[key], f, "Key '%s' lost %s in active.%s.json", key, f, lang)
				}
			}

			for key := range messages {
				assert.Truef(t, known[key], "Key '%s' in active.%s.json is not defined in config.go", key, lang)
			}
		})
	}
}
