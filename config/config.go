// Package config resolves the settings shared by the GCS, BigQuery and Cloud Logging clients.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Keys double as environment variable names; viper upper cases them when looking up the environment.
const (
	ProjectIDKey       = "gcp_project_id"
	BucketNameKey      = "gcp_bucket_name"
	DatasetIDKey       = "gcp_dataset_id"
	CredentialsFileKey = "google_application_credentials"
	LoggerNameKey      = "gcp_logger_name"
	LogLevelKey        = "gcp_log_level"

	configName = "gcputil"
)

// Config holds the identifiers used to construct the clients.
// Missing values are not validated; they are handed to the SDKs which report the problem.
type Config struct {
	ProjectID       string `yaml:"projectID" json:"projectID"`
	BucketName      string `yaml:"bucketName" json:"bucketName"`
	DatasetID       string `yaml:"datasetID" json:"datasetID"`
	CredentialsFile string `yaml:"credentialsFile,omitempty" json:"credentialsFile,omitempty"`
	LoggerName      string `yaml:"loggerName" json:"loggerName"`
	LogLevel        string `yaml:"logLevel" json:"logLevel"`
}

// Load reads the configuration from the environment. An optional gcputil.yaml in the working directory
// can supply the same keys; environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetDefault(LogLevelKey, "info")

	for _, k := range []string{ProjectIDKey, BucketNameKey, DatasetIDKey, CredentialsFileKey, LoggerNameKey, LogLevelKey} {
		if err := v.BindEnv(k); err != nil {
			return nil, errors.Wrapf(err, "Failed to bind environment variable for %v", k)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "Failed to read config file %v", v.ConfigFileUsed())
		}
	}

	return &Config{
		ProjectID:       v.GetString(ProjectIDKey),
		BucketName:      v.GetString(BucketNameKey),
		DatasetID:       v.GetString(DatasetIDKey),
		CredentialsFile: v.GetString(CredentialsFileKey),
		LoggerName:      v.GetString(LoggerNameKey),
		LogLevel:        v.GetString(LogLevelKey),
	}, nil
}
