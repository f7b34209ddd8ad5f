// Package meta extracts and aggregates capture metadata from image files.
package meta

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	// Native formats the reader can verify without the external decoder.
	_ "image/jpeg"

	_ "golang.org/x/image/tiff"
)

// Reader turns image files into normalized metadata records. It is stateless
// and safe for concurrent use across files.
type Reader struct {
	supported schema.ExtensionSet
	forced    schema.ExtensionSet
	decoder   contract.MetadataDecoder
}

// NewReader builds a reader over the given extension sets. Files in the
// forced set go through the external decoder; the rest take the native
// EXIF path.
func NewReader(supported, forced schema.ExtensionSet, decoder contract.MetadataDecoder) *Reader {
	return &Reader{supported: supported, forced: forced, decoder: decoder}
}

// Read produces the normalized record for one file. The extension gate runs
// before any file I/O. Every failure comes back as UnreadableFileError so
// batch callers can skip the file and continue.
func (r *Reader) Read(ctx context.Context, path string) (schema.MetadataRecord, error) {
	if !r.supported.Contains(path) {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{
			Path:   path,
			Reason: fmt.Errorf("unsupported extension %q", strings.ToLower(filepath.Ext(path))),
		}
	}
	if r.forced.Contains(path) {
		return r.readExternal(ctx, path)
	}
	return r.readNative(path)
}

// readNative parses EXIF tags in-process. The image header must decode;
// past that gate, a missing or mangled tag block means the file simply has
// no usable tags and yields a valid all-absent record.
func (r *Reader) readNative(path string) (schema.MetadataRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{Path: path, Reason: err}
	}
	defer func() { _ = f.Close() }()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{Path: path, Reason: fmt.Errorf("decode: %w", err)}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{Path: path, Reason: err}
	}

	rec := schema.MetadataRecord{Path: path}
	x, err := exif.Decode(f)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return rec, nil
	}

	if v, ok := rationalField(x, exif.FNumber); ok && v > 0 {
		rec.Aperture = v
	}
	if v, ok := rationalField(x, exif.ExposureTime); ok && v > 0 {
		rec.ShutterSpeed = v
	}
	if v, ok := intField(x, exif.ISOSpeedRatings); ok && v > 0 {
		rec.ISO = v
	}
	if v, ok := rationalField(x, exif.FocalLength); ok {
		rec.FocalLength = v
	}
	if v, ok := stringField(x, exif.LensModel); ok {
		rec.LensModel = v
	}
	return rec, nil
}

// readExternal shells out to the metadata decoder. An unavailable decoder
// fails this one file, never the batch.
func (r *Reader) readExternal(ctx context.Context, path string) (schema.MetadataRecord, error) {
	if r.decoder == nil || !r.decoder.Available() {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{
			Path:   path,
			Reason: errors.New("metadata decoder is not available"),
		}
	}

	tags, err := r.decoder.Decode(ctx, path)
	if err != nil {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{Path: path, Reason: err}
	}

	rec := schema.MetadataRecord{Path: path}
	if v, ok := lookupNumber(tags, apertureTags); ok && v > 0 {
		rec.Aperture = v
	}
	if v, ok := lookupNumber(tags, shutterTags); ok && v > 0 {
		rec.ShutterSpeed = v
	}
	if v, ok := lookupNumber(tags, isoTags); ok && v > 0 {
		rec.ISO = int(math.Round(v))
	}
	if v, ok := lookupNumber(tags, focalTags); ok {
		rec.FocalLength = v
	}
	if v, ok := lookupString(tags, lensTags); ok {
		rec.LensModel = v
	}
	return rec, nil
}

// rationalField reads one rational EXIF tag as a float. A zero denominator
// counts as absent.
func rationalField(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	if tag.Format() == tiff.RatVal {
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}
	if f, err := tag.Float(0); err == nil {
		return f, true
	}
	if n, err := tag.Int(0); err == nil {
		return float64(n), true
	}
	return 0, false
}

// intField reads one integer EXIF tag. Multi-valued tags yield their first
// entry.
func intField(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	n, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return n, true
}

// stringField reads one string EXIF tag, trimming padding. Empty strings
// count as absent.
func stringField(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return "", false
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	if s == "" {
		return "", false
	}
	return s, true
}
