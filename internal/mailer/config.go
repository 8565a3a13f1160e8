// Package mailer delivers rendered reports by email and keeps local backups of every delivery.
package mailer

// DefaultSMTPPort is the submission port used when none is configured.
const DefaultSMTPPort = 587

// DefaultBackupDir is where delivery backups are written when none is configured.
const DefaultBackupDir = "email_logs"

// Subject is the subject line of every results email.
const Subject = "Your Divorce Strategy Profile Results"

// Config holds SMTP settings and the backup directory.
type Config struct {
	Sender    string `koanf:"sender"`
	Server    string `koanf:"server"`
	Port      int    `koanf:"port"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	BackupDir string `koanf:"backup_dir"`
}

// Configured reports whether every setting needed to send is present.
func (c Config) Configured() bool {
	return c.Sender != "" && c.Server != "" && c.Username != "" && c.Password != ""
}

func (c Config) normalize() Config {
	if c.Port == 0 {
		c.Port = DefaultSMTPPort
	}
	if c.BackupDir == "" {
		c.BackupDir = DefaultBackupDir
	}
	return c
}
