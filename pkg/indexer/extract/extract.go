// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/keshava/quilt/pkg/util"
	"github.com/keshava/quilt/pkg/util/s3"
)

// ContentIndexExts are the extensions whose content is indexed. Objects with
// any other extension contribute metadata only.
var ContentIndexExts = []string{
	".csv",
	".html",
	".ipynb",
	".json",
	".md",
	".rmd",
	".txt",
	".xml",
}

const notebookExt = ".ipynb"

// Extractor turns object content into bounded, utf-8 safe text for indexing.
type Extractor struct {
	log       logr.Logger
	store     s3.Client
	sizeLimit int
}

// New creates a content extractor reading through the given object store
// client. Fetches are scoped to sizeLimit bytes.
func New(log logr.Logger, store s3.Client, sizeLimit int) *Extractor {
	return &Extractor{
		log:       log,
		store:     store,
		sizeLimit: sizeLimit,
	}
}

// Extract returns the searchable text of the referenced object, truncated to
// the document size limit. Malformed content is logged and yields empty text;
// only fetch failures are returned, and the caller maps those to "empty text,
// log and continue" so that extraction never aborts the pipeline.
func (e *Extractor) Extract(ctx context.Context, ref s3.ObjectRef, ext string) (string, error) {
	if !util.StringArrayContains(ContentIndexExts, ext) {
		return "", nil
	}

	data, err := e.store.Fetch(ctx, ref, int64(e.sizeLimit))
	if err != nil {
		return "", err
	}

	var text string
	if ext == notebookExt {
		// notebooks need to be parsed in full here; ginormous ones are bounded
		// by the ranged fetch
		text, err = NotebookCells(data)
		if err != nil {
			e.log.Info("unable to extract notebook cells", "key", ref.Key, "error", err.Error())
			return "", nil
		}
	} else {
		if !utf8.Valid(data) {
			e.log.Info("object content is not valid utf-8", "key", ref.Key)
			return "", nil
		}
		text = string(data)
	}

	return TrimToBytes(text, e.sizeLimit), nil
}
