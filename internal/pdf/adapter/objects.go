package adapter

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/sitecheck-reader/internal/pdf/content"
	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// pageAnnotations reads the /Annots of a page. Value carries the resolved
// /V entry of the annotation or its parent field.
func pageAnnotations(ctx *model.Context, pageNr int) ([]primitives.Annotation, error) {
	pageDict, _, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dictionary: %w", err)
	}
	if pageDict == nil {
		return nil, nil
	}

	annotsObj, found := pageDict.Find("Annots")
	if !found {
		return nil, nil
	}

	annots, err := ctx.DereferenceArray(annotsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Annots: %w", err)
	}

	out := make([]primitives.Annotation, 0, len(annots))
	for _, obj := range annots {
		d, err := ctx.DereferenceDict(obj)
		if err != nil || d == nil {
			continue
		}

		annot := primitives.Annotation{Raw: d.String()}
		if subtype := d.NameEntry("Subtype"); subtype != nil {
			annot.Subtype = *subtype
		}
		if t, found := d.Find("T"); found {
			if name, err := ctx.DereferenceStringOrHexLiteral(t, model.V10, nil); err == nil {
				annot.Name = name
			}
		}
		annot.Value = fieldValue(ctx, d)

		out = append(out, annot)
	}

	return out, nil
}

// fieldValue resolves /V on d or on its parent field
func fieldValue(ctx *model.Context, d types.Dict) string {
	current := d
	for i := 0; i < maxParentDepth && current != nil; i++ {
		if v, found := current.Find("V"); found {
			return objectText(ctx, v)
		}
		parentObj, found := current.Find("Parent")
		if !found {
			break
		}
		parent, err := ctx.DereferenceDict(parentObj)
		if err != nil {
			break
		}
		current = parent
	}
	return ""
}

func objectText(ctx *model.Context, obj types.Object) string {
	if s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil {
		return s
	}
	if name, err := ctx.DereferenceName(obj, model.V10, nil); err == nil {
		return string(name)
	}
	if arr, err := ctx.DereferenceArray(obj); err == nil {
		var joined string
		for i, item := range arr {
			if i > 0 {
				joined += " "
			}
			joined += objectText(ctx, item)
		}
		return joined
	}
	return ""
}

// pageRects decodes the page content stream and returns its painted
// rectangles in layout units
func pageRects(ctx *model.Context, pageNr int, box mediaBox) ([]primitives.Rect, error) {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page content: %w", err)
	}
	if r == nil {
		return nil, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	shapes, scanErr := content.ScanShapes(data)

	rects := make([]primitives.Rect, 0, len(shapes))
	for _, s := range shapes {
		if s.Width() == 0 && s.Height() == 0 {
			continue
		}
		left, bottom := box.toLayout(s.X0, s.Y0)
		right, top := box.toLayout(s.X1, s.Y1)
		rects = append(rects, primitives.Rect{
			Box:  primitives.Box{Left: left, Top: top, Right: right, Bottom: bottom},
			Fill: s.Fill,
		})
	}

	return rects, scanErr
}
