package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/zalando/go-keyring"
)

// sourceModes is aligned with the options of the mode selector.
var sourceModes = []string{config.SourceModeManual, config.SourceModeLocal, config.SourceModeWeb}

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	modeSelect    *widget.Select
	birthEntry    *widget.Entry
	pathEntry     *widget.Entry
	urlEntry      *widget.Entry
	userEntry     *widget.Entry
	passEntry     *widget.Entry
	contactEntry  *widget.Entry
	entryInterval *NumericalEntry
	entryPort     *NumericalEntry
}

// mode returns the source mode picked in the selector.
func (sw *settingsWidgets) mode() string {
	if i := sw.modeSelect.SelectedIndex(); i >= 0 && i < len(sourceModes) {
		return sourceModes[i]
	}
	return config.SourceModeManual
}

// validate reports the first field that blocks saving.
func (sw *settingsWidgets) validate() error {
	if err := sw.entryPort.Validate(); err != nil {
		return err
	}
	if sw.mode() == config.SourceModeManual {
		return sw.birthEntry.Validate()
	}
	return nil
}

// ShowSettingsWindow displays the configuration dialog.
func (app *BiorhythmApp) ShowSettingsWindow() {
	if app.SettingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.SettingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.SettingsWindow = w

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	sw := app.newSettingsWidgets()
	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)
	generalCard := app.buildGeneralCard(sw)

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := sw.validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		app.RefreshTrayMenu()
		go app.performRefresh(true)
		w.Close()
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footer := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		sourceCard,
		generalCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footer,
	))

	refreshLayout = func() {
		content.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	}

	w.SetContent(content)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.SettingsWindow = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets creates the form fields, filled from the current preferences.
func (app *BiorhythmApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeManual),
		app.GetMsg(config.TKeyModeLocal),
		app.GetMsg(config.TKeyModeCardDAV),
	}, nil)
	for i, m := range sourceModes {
		if m == app.sourceMode() {
			sw.modeSelect.SetSelectedIndex(i)
		}
	}

	sw.birthEntry = widget.NewEntry()
	sw.birthEntry.SetPlaceHolder(config.PlaceholderDate)
	sw.birthEntry.SetText(app.Preferences.String(config.PrefBirthDate))
	sw.birthEntry.Validator = func(s string) error {
		if _, err := biorhythm.ParseDate(s); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrDate))
		}
		return nil
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetPlaceHolder(config.PlaceholderURL)
	sw.urlEntry.SetText(app.Preferences.String(config.PrefCardDAVURL))

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.contactEntry = widget.NewEntry()
	sw.contactEntry.SetText(app.Preferences.String(config.PrefContactName))

	sw.entryInterval = NewNumericalEntry(config.MaxIntervalDigits)
	sw.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	sw.entryPort = NewNumericalEntry(config.MaxPortDigits)
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = app.validatePort

	return sw
}

func (app *BiorhythmApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
	if port < config.MinPort || port > config.MaxPort {
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

// buildSourceCard shows the fields of the selected birth date source only.
func (app *BiorhythmApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	manualForm := widget.NewForm(widget.NewFormItem(app.GetMsg(config.TKeyLblBirthDate), sw.birthEntry))

	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	webForm := widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	)

	itemContact := widget.NewFormItem(app.GetMsg(config.TKeyLblContact), sw.contactEntry)
	itemContact.HintText = app.GetMsg(config.TKeyHelpContact)
	contactForm := widget.NewForm(itemContact)

	show := func(o fyne.CanvasObject, visible bool) {
		if visible {
			o.Show()
		} else {
			o.Hide()
		}
	}
	updateVis := func() {
		mode := sw.mode()
		show(manualForm, mode == config.SourceModeManual)
		show(localForm, mode == config.SourceModeLocal)
		show(webForm, mode == config.SourceModeWeb)
		show(contactForm, mode != config.SourceModeManual)
	}
	sw.modeSelect.OnChanged = func(string) {
		updateVis()
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}
	updateVis()

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "",
		container.NewVBox(sw.modeSelect, manualForm, localForm, webForm, contactForm))
}

func (app *BiorhythmApp) buildGeneralCard(sw *settingsWidgets) *widget.Card {
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemInterval, itemPort))
}

// saveSettings persists the form. The caller validates first.
func (app *BiorhythmApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSave, config.LogKeyComponent, config.CompUISet)

	mode := sw.mode()
	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	app.Preferences.SetString(config.PrefSourceMode, mode)
	app.Preferences.SetString(config.PrefLocalPath, strings.TrimSpace(sw.pathEntry.Text))
	app.Preferences.SetString(config.PrefCardDAVURL, strings.TrimSpace(sw.urlEntry.Text))
	app.Preferences.SetString(config.PrefUsername, strings.TrimSpace(sw.userEntry.Text))
	app.Preferences.SetString(config.PrefContactName, strings.TrimSpace(sw.contactEntry.Text))

	if birth, err := biorhythm.ParseDate(sw.birthEntry.Text); err == nil {
		app.Preferences.SetString(config.PrefBirthDate, birth.String())
	}

	if user := strings.TrimSpace(sw.userEntry.Text); user != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, user, sw.passEntry.Text); err != nil {
			slog.Error(config.ErrKeyringSave, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	// Empty or zero turns automatic refreshes off.
	interval := config.DisabledInterval
	if i, err := strconv.Atoi(sw.entryInterval.Text); err == nil && i > 0 {
		interval = i
	}
	if interval == config.DisabledInterval {
		slog.Info(config.MsgRefreshDisabled, config.LogKeyComponent, config.CompUISet)
	}
	app.Preferences.SetInt(config.PrefInterval, interval)

	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	app.UpdateLocalizer()
}
