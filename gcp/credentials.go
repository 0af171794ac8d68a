// Package gcp provides a client for working with GCS, BigQuery and Cloud Logging in a single project.
package gcp

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/jlewi/gcputil/files"
	"github.com/jlewi/gcputil/gcp/gcs"
	"github.com/jlewi/gcputil/helpers"
	"github.com/jlewi/gcputil/util"
)

// Scopes are the OAuth scopes requested for the credentials shared by all the clients.
var Scopes = []string{
	storage.ScopeReadWrite,
	bigquery.Scope,
	logging.WriteScope,
}

// ClientOptions returns the options used to construct the clients.
// If credentialsFile is empty Application Default Credentials are used. Otherwise credentialsFile should be
// the path of a service account or authorized user JSON key; gs:// URIs are read with default credentials.
func ClientOptions(ctx context.Context, credentialsFile string) ([]option.ClientOption, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	log := zapr.NewLogger(zap.L())

	var fHelper files.FileHelper

	if strings.HasPrefix(credentialsFile, files.GCSScheme+"://") {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to create storage client to read %v", credentialsFile)
		}
		defer helpers.DeferIgnoreError(client.Close)

		fHelper = &gcs.GcsHelper{
			Ctx:    ctx,
			Client: client,
		}
	} else {
		fHelper = &files.LocalFileHelper{}
	}

	reader, err := fHelper.NewReader(credentialsFile)
	if err != nil {
		return nil, err
	}
	defer util.MaybeClose(reader)

	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read credentials from %v", credentialsFile)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, Scopes...)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse credentials file %v", credentialsFile)
	}
	log.V(1).Info("Loaded credentials", "file", credentialsFile, "project", creds.ProjectID)
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}
