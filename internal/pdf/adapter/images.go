package adapter

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
)

// Image is an embedded image stream passed through without re-encoding
type Image struct {
	Page int    `json:"page"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Data []byte `json:"data_base64"`
}

// Images returns the embedded images of data in page order. An image
// referenced on several pages is returned once.
func (a *Adapter) Images(name string, data []byte) ([]Image, error) {
	pages, err := api.ExtractImagesRaw(bytes.NewReader(data), nil, newConfiguration())
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeCorruptedData, err).WithFile(name)
	}

	type keyed struct {
		objNr int
		img   Image
	}
	var found []keyed
	seen := make(map[string]bool)

	for _, page := range pages {
		objNrs := make([]int, 0, len(page))
		for objNr := range page {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := page[objNr]
			if img.Reader == nil || seen[img.Name] {
				continue
			}
			raw, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("failed to read image %s: %w", img.Name, err)
			}
			if len(raw) == 0 {
				continue
			}
			seen[img.Name] = true

			ext := img.FileType
			if ext == "" {
				ext = "bin"
			}
			found = append(found, keyed{objNr: objNr, img: Image{Page: img.PageNr, Name: img.Name, Ext: ext, Data: raw}})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].img.Page != found[j].img.Page {
			return found[i].img.Page < found[j].img.Page
		}
		return found[i].objNr < found[j].objNr
	})

	images := make([]Image, len(found))
	for i, k := range found {
		images[i] = k.img
	}

	a.logger.Debug().Str("file", name).Int("images", len(images)).Msg("images extracted")

	return images, nil
}
