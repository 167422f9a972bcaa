package render

import "errors"

// ErrConverterMissing is returned by ToPDF and ToPNG when rsvg-convert is
// not installed.
var ErrConverterMissing = errors.New("rsvg-convert not found")
