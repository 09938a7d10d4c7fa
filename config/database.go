package config

import (
	"time"

	"notetasks/utils"

	"go.mongodb.org/mongo-driver/mongo/options"
)

type DatabaseConfig struct {
	URI             string        `yaml:"uri"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	DatabaseName    string        `yaml:"database_name"`
	NotesCollection string        `yaml:"notes_collection"`
	TasksCollection string        `yaml:"tasks_collection"`
	RetryWrites     bool          `yaml:"retry_writes"`
}

func defaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             "mongodb://localhost:27017",
		MaxPoolSize:     100,
		MinPoolSize:     10,
		MaxConnIdleTime: 60 * time.Second,
		DatabaseName:    "notetasks",
		NotesCollection: "notes",
		TasksCollection: "tasks",
		RetryWrites:     true,
	}
}

// applyEnv overrides the loaded values with any MONGO_* variables set
func (c *DatabaseConfig) applyEnv() {
	c.URI = utils.GetEnvAsString("MONGO_URI", c.URI)
	c.MaxPoolSize = utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", c.MaxPoolSize)
	c.MinPoolSize = utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", c.MinPoolSize)
	c.MaxConnIdleTime = utils.GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", c.MaxConnIdleTime)
	c.DatabaseName = utils.GetEnvAsString("MONGO_DB", c.DatabaseName)
	c.NotesCollection = utils.GetEnvAsString("NOTES_COLLECTION", c.NotesCollection)
	c.TasksCollection = utils.GetEnvAsString("TASKS_COLLECTION", c.TasksCollection)
	c.RetryWrites = utils.GetEnvAsBool("MONGO_RETRY_WRITES", c.RetryWrites)
}

// ClientOptions builds the driver options for this configuration, with the
// connection pool monitor attached.
func (c DatabaseConfig) ClientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxConnIdleTime).
		SetRetryWrites(c.RetryWrites).
		SetPoolMonitor(utils.NewPoolMonitor())
}
