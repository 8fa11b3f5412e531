// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package static // import "website.app/v2/internal/ui/static"

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"website.app/v2/internal/crypto"
)

//go:embed bin/*
var binaryFiles embed.FS

//go:embed css/*.css css/bundles.json
var stylesheetFiles embed.FS

var (
	binaryFileChecksums map[string]string
	stylesheets         = newBundles(".css")
)

// Init prepares all embedded assets for serving.
func Init(ctx context.Context) error {
	if err := CalculateBinaryFileChecksums(ctx); err != nil {
		return err
	}
	return GenerateStylesheetsBundles(ctx)
}

// CalculateBinaryFileChecksums generates hash of embed binary files.
func CalculateBinaryFileChecksums(ctx context.Context) error {
	slog.Debug("calculate binary file hashes")
	dirEntries, err := binaryFiles.ReadDir("bin")
	if err != nil {
		return fmt.Errorf("ui/static: failed read bin/: %w", err)
	}

	checksums := make(map[string]string, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if ctx.Err() != nil {
			return fmt.Errorf("ui/static: break loop over binary files: %w",
				context.Cause(ctx))
		}
		data, err := LoadBinaryFile(dirEntry.Name())
		if err != nil {
			return err
		}
		checksums[dirEntry.Name()] = crypto.HashFromBytes(data)
	}
	binaryFileChecksums = checksums
	return nil
}

// LoadBinaryFile loads an embed binary file.
func LoadBinaryFile(filename string) ([]byte, error) {
	fullName := "bin/" + filename
	b, err := binaryFiles.ReadFile(fullName)
	if err != nil {
		return nil, fmt.Errorf("ui/static: failed read %q: %w", fullName, err)
	}
	return b, nil
}

// BinaryFileChecksum returns a binary file checksum.
func BinaryFileChecksum(filename string) (string, error) {
	checksum, ok := binaryFileChecksums[filename]
	if !ok {
		return "", fmt.Errorf("ui/static: unable to find checksum for %q",
			filename)
	}
	return checksum, nil
}

// GenerateStylesheetsBundles creates gzipped CSS bundles listed in
// css/bundles.json.
func GenerateStylesheetsBundles(ctx context.Context) error {
	slog.Debug("generate css bundles")
	manifest, err := stylesheetFiles.ReadFile("css/bundles.json")
	if err != nil {
		return fmt.Errorf("ui/static: failed read css manifest: %w", err)
	}

	if err := stylesheets.Generate(ctx, stylesheetFiles, manifest); err != nil {
		return fmt.Errorf("ui/static: css bundles: %w", err)
	}
	return nil
}

// StylesheetBundle returns gzipped content of a bundle by its file name, like
// "app.0123456789abcdef.css", or nil.
func StylesheetBundle(filename string) []byte {
	return stylesheets.Bundle(filename)
}

// StylesheetNameExt returns the file name of bundle name, including its
// checksum.
func StylesheetNameExt(name string) string {
	return stylesheets.NameExt(name)
}
