package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ksiegowosc"
	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
	"github.com/kevin07696/ksiegowosc-client/pkg/timeutil"
)

func timestampCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timestamp",
		Short: "Print the current request timestamp and datestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			render, err := newRenderer(opts.output)
			if err != nil {
				return err
			}
			now := timeutil.Now()
			return render(cmd.OutOrStdout(), map[string]string{
				"timestamp": timeutil.Timestamp(now),
				"datestamp": timeutil.Datestamp(now),
			})
		},
	}
}

// signedRequest describes a request that sign would send
type signedRequest struct {
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
	Body      string `json:"body"`
}

func signCmd(opts *rootOptions) *cobra.Command {
	var (
		path      string
		data      string
		timestamp string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signed URL for a request without sending it",
		RunE: func(cmd *cobra.Command, args []string) error {
			render, err := newRenderer(opts.output)
			if err != nil {
				return err
			}
			if path == "" {
				return pkgerrors.NewValidationError("path", "endpoint path is required")
			}
			if timestamp == "" {
				timestamp = timeutil.Timestamp(timeutil.Now())
			}

			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			auth, err := loadAuth(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			body := []byte(data)
			query := auth.Sign(timestamp, body)
			endpointURL := strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

			return render(cmd.OutOrStdout(), signedRequest{
				URL:       endpointURL + "?" + query.Encode(),
				Timestamp: timestamp,
				Signature: query.Get(ksiegowosc.ParamSignature),
				Body:      data,
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "endpoint path, e.g. v1/gettaxes")
	cmd.Flags().StringVarP(&data, "data", "d", "{}", "exact request body to sign")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "YYYYMMDDHHmmss, defaults to now")
	return cmd
}

// readPayload decodes the JSON file at path ("-" reads stdin) into v.
// Unknown fields are rejected so typos do not silently drop data.
func readPayload(cmd *cobra.Command, path string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return pkgerrors.NewValidationError("file", fmt.Sprintf("invalid payload: %v", err))
	}
	return nil
}
