// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/litreview/pkg/types"
)

var disableConfigDir sync.Once

// preflight is the validation step run by every backend; tests replace it.
var preflight = Preflight

// Preflight validates a PDF's structure and returns its page count. Files
// that fail validation are unreadable; a PDF without pages is empty.
func Preflight(path string) (pages int, err error) {
	disableConfigDir.Do(api.DisableConfigDir)

	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fail(types.FailureUnreadable, path, fmt.Errorf("%w: %v", ErrInvalidPDF, r))
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fail(types.FailureUnreadable, path, fmt.Errorf("%w: %v", ErrInvalidPDF, err))
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fail(types.FailureUnreadable, path, fmt.Errorf("%w: %v", ErrInvalidPDF, err))
	}
	if n == 0 {
		return 0, fail(types.FailureEmpty, path, ErrNoText)
	}
	return n, nil
}
