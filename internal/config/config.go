package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Biorhythm/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Biorhythm"
	AppID             = "com.github.tartampluch.go-biorhythm"
	KeyringService    = "com.github.tartampluch.go-biorhythm"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- and is used for the log file.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ and is used for the cache directory.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Environment
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagPrint    = "print"
	FlagHeadless = "headless"
	FlagBirth    = "birth"
	FlagMonth    = "month"
	FlagVCard    = "vcard"
	FlagContact  = "contact"
	FlagPort     = "port"
	FlagEnvFile  = "env"

	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescPrint    = "Print the biorhythm table for the month and exit"
	FlagDescHeadless = "Serve the chart feed without a user interface"
	FlagDescBirth    = "Birth date (YYYY-MM-DD)"
	FlagDescMonth    = "Month to chart (YYYY-MM), defaults to the current month"
	FlagDescVCard    = "Read the birth date from a vCard file or http(s) URL instead of -birth"
	FlagDescContact  = "Name of the vCard contact to chart (first contact with a birth year otherwise)"
	FlagDescPort     = "Port of the local chart feed"
	FlagDescEnvFile  = "Optional dotenv file providing defaults for the flags above"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	EnvNoColor = "NO_COLOR"

	EnvBirth   = "GO_BIORHYTHM_BIRTH"
	EnvMonth   = "GO_BIORHYTHM_MONTH"
	EnvVCard   = "GO_BIORHYTHM_VCARD"
	EnvContact = "GO_BIORHYTHM_CONTACT"
	EnvPort    = "GO_BIORHYTHM_PORT"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	ChartWindowWidth    = 820
	ChartWindowHeight   = 560

	// ChartMinWidth and ChartMinHeight follow a golden-ratio canvas.
	ChartMinWidth  = 640
	ChartMinHeight = 396

	ChartStrokeWidth = 2
	ChartAxisWidth   = 1
	ChartPadding     = 12

	// Digit limits of numeric settings entries
	MaxPortDigits     = 5
	MaxIntervalDigits = 4

	// Preference Keys
	PrefSourceMode  = "source_mode"
	PrefBirthDate   = "birth_date"
	PrefLocalPath   = "local_path"
	PrefCardDAVURL  = "carddav_url"
	PrefUsername    = "username"
	PrefContactName = "contact_name"
	PrefLanguage    = "language"
	PrefInterval    = "refresh_interval_min"
	PrefServerPort  = "server_port"
	PrefMonth       = "month"
	PrefLastRun     = "last_run_version"

	// Display Formats
	ValueFormat      = "%+.2f"
	PlaceholderDate  = "YYYY-MM-DD"
	PlaceholderMonth = "YYYY-MM"
	PlaceholderURL   = "https://..."
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinChart      = "win_chart_title"
	TKeyWinSettings   = "win_settings_title"
	TKeyMenuOpen      = "menu_open_chart"
	TKeyMenuRefresh   = "menu_refresh"
	TKeyMenuSettings  = "menu_settings"
	TKeyTrayStatus    = "tray_status"       // Requires Physical, Emotional, Intellectual
	TKeyTrayNoData    = "tray_status_empty" // No birth date configured
	TKeyNotifStart    = "notif_refresh_start"
	TKeyNotifSuccess  = "notif_refresh_success"
	TKeyNotifError    = "notif_err_refresh"
	TKeyLblBirthDate  = "lbl_birth_date"
	TKeyLblMonth      = "lbl_month"
	TKeyBtnPrevMonth  = "btn_prev_month"
	TKeyBtnNextMonth  = "btn_next_month"
	TKeyBtnToday      = "btn_today"
	TKeyCyclePhys     = "cycle_physical"
	TKeyCycleEmo      = "cycle_emotional"
	TKeyCycleIntel    = "cycle_intellectual"
	TKeyStatusToday   = "status_today"    // Requires Physical, Emotional, Intellectual
	TKeyStatusOutside = "status_outside"  // Today is not in the charted month
	TKeyStatusInvalid = "status_invalid"  // Birth date missing or malformed
	TKeyStatusEmpty   = "status_empty"    // Empty range
	TKeyStatusSubject = "status_subject"  // Requires Name
	TKeyStatusWaiting = "status_waiting"  // Address book not read yet
	TKeyStatusFailed  = "status_failed"   // Last refresh failed
	TKeyModeManual    = "mode_manual"
	TKeyModeLocal     = "mode_local"
	TKeyModeCardDAV   = "mode_carddav"
	TKeyLblLanguage   = "lbl_language"
	TKeyHelpLanguage  = "help_language"
	TKeyLblMinutes    = "lbl_minutes_suffix"
	TKeyLblRefresh    = "lbl_refresh_interval"
	TKeyHelpInterval  = "help_interval"
	TKeyLblPort       = "lbl_server_port"
	TKeyHelpPort      = "help_port"
	TKeyLblGeneral    = "lbl_general"
	TKeyLblSource     = "lbl_source"
	TKeyLblContact    = "lbl_contact"
	TKeyHelpContact   = "help_contact"
	TKeyLblURL        = "lbl_url"
	TKeyHelpURL       = "help_carddav_url"
	TKeyLblUser       = "lbl_user"
	TKeyLblPass       = "lbl_pass"
	TKeyBtnBrowse     = "btn_browse"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyLblFooter     = "lbl_footer"
	TKeyEvtCritical   = "event_critical" // Requires Cycle

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
	TKeyErrDate      = "err_birth_date"
	TKeyErrMonth     = "err_month"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeManual  = "manual"
	SourceModeLocal   = "local"
	SourceModeWeb     = "web"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	DisabledInterval  = 0
	UIDSalt           = "go-biorhythm-v1-" // Salt for deterministic UID generation
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Biorhythm//Engine//EN"
	ICalCalName = "Biorhythm critical days"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gobiorhythm"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropTransp      = "TRANSP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	ICalTranspTransparent = "TRANSPARENT"
	ICalCategory          = "BIORHYTHM"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 12 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object served when no critical day falls in range.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Chart Datasets
// -----------------------------------------------------------------------------

const (
	LabelPhysical     = "Physical"
	LabelEmotional    = "Emotional"
	LabelIntellectual = "Intellectual"

	ColorPhysical     = "red"
	ColorEmotional    = "green"
	ColorIntellectual = "blue"
)

// -----------------------------------------------------------------------------
// Terminal Table (-print)
// -----------------------------------------------------------------------------

const (
	TableHeaderDate     = "Date"
	TableHeaderCritical = "Critical"
	TableTodayMark      = " *"
	// FormatTableTitle expects the subject name, birth date and month.
	FormatTableTitle = "%s, born %s: %s"
	// FormatTableFooter expects the number of critical days.
	FormatTableFooter = "%d critical day(s)"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted in vCard BDAY fields. Year-less forms are rejected.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatMonth     = "2006-01"

	MinPort = 1
	MaxPort = 65535

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s|%s|%s"
	FormatUID       = "%s@%s"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"

	FallbackSubject = "Me"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	CORSMaxAgeSeconds   = 600
	RetryAfterSeconds   = "10"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
	ETagWeakPrefix      = "W/"
	ETagAny             = "*"

	RouteRoot     = "/"
	RouteChart    = "/chart.json"
	RouteCalendar = "/calendar.ics"
	RouteHealth   = "/healthz"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderOrigin          = "Origin"
	HeaderAllowOrigin     = "Access-Control-Allow-Origin"

	MimeJSON            = "application/json; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// AllowedMethods lists the methods answered by the chart feed.
var AllowedMethods = []string{"GET", "HEAD"}

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported birth source"
	ErrBirthDate        = "invalid birth date"
	ErrMonth            = "invalid month selection"
	ErrNoBirthday       = "no contact with a full birth date found"
	ErrContactNotFound  = "contact not found"
	ErrSeries           = "failed to compute biorhythm series"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrRequest          = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrStatus           = "server returned unexpected status"
	ErrVCardParse       = "failed to read vCard source"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrJSONEncode       = "failed to encode chart document"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrEnvFile          = "failed to load env file"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrKeyringSave      = "failed to save credentials to keyring"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Chart initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgHealthy      = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackEventCritical = "Critical day: %s"
	FallbackTrayError     = "Go Biorhythm: Refresh Error"
	FallbackTrayLabel     = "Go Biorhythm"
	FallbackTrayStatus    = "P %s  E %s  I %s"

	TitleStartupError = "Startup Error"
	TitleRefreshError = "Refresh Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgRefreshReq      = "Refresh requested"
	MsgRefreshFailed   = "Chart refresh failed"
	MsgRefreshShared   = "Refresh joined an in-flight computation"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgUpdateRefresh   = "Updating refresh interval"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping contact without a usable birth date"
	MsgChartReady      = "Biorhythm chart computed"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Chart cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgFetchStart      = "Initiating vCard download"
	MsgFetchStatus     = "Server returned error status"
	MsgFetchOK         = "vCards downloading"
	MsgEnvLoaded       = "Environment defaults loaded"
	MsgInputRejected   = "Chart input rejected"
	MsgSettingsOpen    = "Opening settings window"
	MsgSettingsFocus   = "Settings window already open, requesting focus"
	MsgSettingsSave    = "Saving preferences"
	MsgRefreshDisabled = "Auto-refresh disabled via settings"
	MsgChartOpen       = "Opening chart window"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyName      = "name"
	LogKeyMonth     = "month"
	LogKeyDays      = "days"
	LogKeyCritical  = "critical_days"
	LogKeyCards     = "cards"
	LogKeyShared    = "shared"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"
	LogKeyRunMode   = "run_mode"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompUIChart = "ui_chart"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)

// Run modes selected on the command line.
const (
	RunModeGUI      = "gui"
	RunModePrint    = "print"
	RunModeHeadless = "headless"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
