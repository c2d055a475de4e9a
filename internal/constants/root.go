package constants

import "time"

// SessionState represents the active tab or modal of the TUI application
type SessionState int

const (
	AppName            = "studyflow"
	DefaultKeyringUser = "database-connection"
	DefaultStorePath   = "~/.config/studyflow/studyflow.db"
	DefaultConfigFile  = "~/.config/studyflow/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage keys, one collection per feature
	KeyTasks        = "studyflow-tasks"
	KeyHabits       = "studyflow-habits"
	KeyEvents       = "studyflow-events"
	KeyChatSessions = "studyflow-chat-sessions"
	// KeyActiveChat remembers the CLI's selected chat between invocations
	KeyActiveChat   = "studyflow-active-chat"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studyflow-"

	// Relay constants
	RelayLockfileName         = "studyflow-relay.lock"
	RelayExecutableName       = "studyflow"
	DefaultRelayAddr          = "127.0.0.1:8787"
	DefaultRelayTimeout       = 60 * time.Second
	DefaultRelayMaxConcurrent = 4
	ChatPath                  = "/api/chat"

	// Chat constants
	NewChatTitle      = "New Chat"
	ChatTitleMaxRunes = 30
	ChatFallbackReply = "I'm sorry, I encountered an error. Please try again."

	// Habit analytics defaults
	DefaultCompletionWindowDays = 30
	WeeklyWindowDays            = 7

	// Calendar constants
	MonthGridCells       = 42
	UpcomingEventsLimit  = 5
	DefaultEventDuration = 60

	// Focus timer defaults, in minutes
	DefaultFocusMin      = 25
	DefaultShortBreakMin = 5
	DefaultLongBreakMin  = 15
	SessionsPerLongBreak = 4
	DefaultTimezone      = "Local"
)

// Session States
const (
	StateTimer SessionState = iota
	StateTasks
	StateHabits
	StateCalendar
	StateChat
	StateAddTask
	StateEditTask
	StateAddHabit
	StateAddEvent
	StateEditEvent
	StateTimerSettings
	StateConfirmDelete
)

// MainTabs lists the tab states in display order.
var MainTabs = []SessionState{StateTimer, StateTasks, StateHabits, StateCalendar, StateChat}
