package db

import (
	"github.com/annalapradeBU/cafe-passport/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init connects to MySQL when MYSQL_DSN is set, SQLite otherwise
func Init() {
	var (
		conn *gorm.DB
		err  error
	)
	if config.MYSQL_DSN != "" {
		conn, err = Open(mysql.Open(config.MYSQL_DSN))
	} else {
		conn, err = OpenSQLite(config.SQLITE_FILE)
	}
	if err != nil || conn == nil {
		panic(err)
	}
	Instance = conn
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !config.DEBUG_MODE {
		logLevel = logger.Error
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
}

// OpenSQLite opens (or creates) a database file with foreign keys enforced
func OpenSQLite(file string) (*gorm.DB, error) {
	return Open(sqlite.Open(file + "?_foreign_keys=on&_busy_timeout=5000"))
}

// Transaction runs fn as a single unit of work. Any error returned by fn,
// or by the final commit, rolls everything back.
func Transaction(conn *gorm.DB, fn func(tx *gorm.DB) error) error {
	return conn.Transaction(fn)
}
