package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// LocalDBPath is the SQLite file holding the print queue and device settings.
	LocalDBPath string
	// DeviceID empty means the ID generated once and kept in the local store.
	DeviceID string
	// DeviceWaitress signs a waitress in at startup. Empty on kitchen devices.
	DeviceWaitress string

	// RedisURL enables push wake-ups of the change feed. Empty means poll only.
	RedisURL string

	PrinterDriver  string
	PrinterAddress string
	PrinterFile    string
	TicketWidth    int

	FeedPollSpec         string
	NotificationPollSpec string
	RemoteTimeout        time.Duration
}
