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
var UserAgent = "Go-Datepicker/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Datepicker"
	AppID             = "com.github.tartampluch.go-datepicker"
	AppDirName        = "go-datepicker"
	ConfigFileName    = "config.toml"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
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
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRoot  = "go-datepicker"
	CmdDemo  = "demo"
	CmdServe = "serve"

	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagConfig   = "config"
	FlagPort     = "port"
	FlagOneTap   = "one-tap"
	FlagLocale   = "locale"
	FlagWeekday  = "first-weekday"
	FlagYear     = "year"
	FlagMonth    = "month"
	FlagBlockICS = "blocked-ics"

	DescRoot     = "Stateless inline calendar picker for chat keyboards"
	DescDemo     = "Drive the picker interactively in the terminal"
	DescServe    = "Serve the picker over HTTP as JSON"
	DescVersion  = "Show application version and exit"
	DescDebug    = "Enable debug logging"
	DescConfig   = "Path to the TOML configuration file"
	DescPort     = "HTTP port to listen on"
	DescOneTap   = "Confirm a date with a single tap"
	DescLocale   = "Locale used for month and weekday names"
	DescWeekday  = "First day of the week (0 = Monday)"
	DescYear     = "Initial year (defaults to the current year)"
	DescMonth    = "Initial month (defaults to the current month)"
	DescBlockICS = "Path or URL of an iCalendar file whose events are blocked"

	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"
)

// -----------------------------------------------------------------------------
// Token Wire Format
// -----------------------------------------------------------------------------

const (
	// TokenPrefix tags every payload produced by this widget.
	TokenPrefix = "datepicker"

	// TokenSeparator frames the token fields.
	TokenSeparator = ":"

	// TokenParts is the prefix plus the seven state fields.
	TokenParts = 8

	// MaxTokenLength is the inline button payload limit of chat platforms, in bytes.
	MaxTokenLength = 64
)

// -----------------------------------------------------------------------------
// Picker Defaults
// -----------------------------------------------------------------------------

const (
	DefaultPlaceholder     = "📆 Selected date: "
	DefaultLocale          = "en_US"
	DefaultFirstWeekday    = 0
	DefaultPrevButton      = "<<"
	DefaultNextButton      = ">>"
	DefaultBlockedButton   = "❌"
	DefaultEmptyButton     = "ㅤ"
	DefaultDateFormat      = "02.01.2006"
	DefaultYearRange       = 120
	DefaultConfirmButton   = "Confirm ✅"
	DefaultSelectionFormat = "∙%s∙"
	DefaultPort            = "18080"

	// DateFormatFile is the layout of dates written in the configuration file.
	DateFormatFile = "2006-01-02"

	// FormatMonthHeader renders "{MonthAbbr} • {Year}".
	FormatMonthHeader = "%s • %04d"
	// FormatDecadeHeader renders "{start}-{end}".
	FormatDecadeHeader = "%d-%d"
)

// -----------------------------------------------------------------------------
// Calendar Geometry
// -----------------------------------------------------------------------------

const (
	DaysPerWeek     = 7
	MonthsPerYear   = 12
	YearsPerDecade  = 10
	MonthRowSize    = 4
	YearRowSize     = 4
	DecadeLeadYears = 3
	DecadeYearCount = 16
	MaxDaysInMonth  = 31
)

// -----------------------------------------------------------------------------
// Locale Data (I18n)
// -----------------------------------------------------------------------------

const (
	LocaleDir        = "locales"
	LocaleFilePrefix = "active."
	LocaleFileSuffix = ".json"
	LocaleUnmarshal  = "json"

	// TKeyMonthAbbr expects the month number (1-12).
	TKeyMonthAbbr = "month_abbr_%d"
	// TKeyWeekdayAbbr expects the weekday index (0 = Monday).
	TKeyWeekdayAbbr = "weekday_abbr_%d"
)

// -----------------------------------------------------------------------------
// Blocked-Days Sources
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"
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
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	MaxRequestBodySize  = 4 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RoutePicker         = "/picker"
	RouteCallback       = "/picker/callback"
	AddrSeparator       = ":"
	AllowedMethodsView  = "GET, HEAD"
	AllowedMethodsCall  = "POST"

	QueryView  = "view"
	QueryYear  = "year"
	QueryMonth = "month"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderAllow        = "Allow"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderUserAgent    = "User-Agent"
	HeaderIfNoneMatch  = "If-None-Match"

	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrTokenMalformed   = "malformed datepicker token"
	ErrTokenTooLong     = "datepicker token exceeds payload limit"
	ErrTokenPrefix      = "foreign token prefix"
	ErrTokenArity       = "unexpected number of token fields"
	ErrTokenAction      = "unknown action"
	ErrTokenNumber      = "invalid numeric field"
	ErrTokenRange       = "field out of range"
	ErrTokenEscape      = "invalid escape sequence"
	ErrInvalidDate      = "invalid calendar date"
	ErrDateFieldParse   = "date field does not match the configured format"
	ErrUnknownView      = "unknown view kind"
	ErrDateFormatLossy  = "date format does not round-trip a full date"
	ErrSelectionFormat  = "selection format needs exactly one %s verb"
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrICalDecode       = "failed to decode iCalendar data"
	ErrEventDate        = "failed to read event date"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrWriteResp        = "failed to write response body"
	ErrRequestBody      = "failed to decode request body"
	ErrConfigPathEmpty  = "config path is empty"
	ErrConfigStat       = "failed to stat config"
	ErrConfigDecode     = "failed to decode config"
	ErrConfigDate       = "invalid date in config"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrEditFailed       = "view edit rejected, skipping"
	ErrRenderCell       = "skipping cell with impossible date"
	ErrSelectionParse   = "ignoring unparseable selected date"
	ErrInputRead        = "failed to read input"
	ErrInputCell        = "no button at that position"
	ErrInputSyntax      = "expected \"row col\" or \"q\""
	ErrBlockedSource    = "failed to load blocked days"
	ErrControlButtonLen = "control buttons need exactly two labels"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgBadRequest   = "Bad Request"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Log & Console Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgTransition    = "Transition applied"
	MsgConfirmed     = "Date confirmed"
	MsgNoop          = "Informational tap ignored"
	MsgBlockedLoaded = "Blocked days loaded"
	MsgICalDownload  = "Initiating iCalendar download"
	MsgFetchStatus   = "Server returned error status"
	MsgConfigLoaded  = "Configuration file loaded"

	ConsolePrompt    = "tap (row col, q to quit): "
	ConsoleConfirmed = "Selected date %s ✅\n"
	ConsoleQuit      = "q"
	ConsoleCellFmt   = "%d.%d %s"
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
	LogKeyAction    = "action"
	LogKeyView      = "view"
	LogKeyYear      = "year"
	LogKeyMonth     = "month"
	LogKeyDay       = "day"
	LogKeyDate      = "date"
	LogKeyCount     = "count"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "build_date"
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
	CompPicker   = "picker"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompHolidays = "holidays"
	CompConsole  = "console"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompConfig   = "config"
)
