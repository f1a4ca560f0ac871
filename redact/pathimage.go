// seehuhn.de/go/redact - true content-stream redaction for PDF pages
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package redact

import (
	"seehuhn.de/go/redact/content"
	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/external"
	"seehuhn.de/go/redact/imageedit"
	"seehuhn.de/go/redact/pathedit"
)

// editPaths groups path-construction runs into complete paths and clips
// the ones overlapping areas, splicing replacements in place.
func editPaths(ops []*content.Operation, areas []coord.Rectangle) ([]*content.Operation, int) {
	ctm := func(i int) coord.Matrix { return ops[i].CTM }
	paths := pathedit.Collect(ops, ctm)

	var out []*content.Operation
	removed := 0
	i := 0
	pathIdx := 0
	for i < len(ops) {
		if pathIdx < len(paths) && paths[pathIdx].StartIndex == i {
			cp := paths[pathIdx]
			pathIdx++
			res := pathedit.Clip(cp.Path, areas)
			switch res.Action {
			case pathedit.ActionKeep, pathedit.ActionOverlayOnly:
				out = append(out, ops[cp.StartIndex:cp.EndIndex+1]...)
			case pathedit.ActionDelete:
				removed++
			case pathedit.ActionReplace:
				removed++
				out = append(out, res.Ops...)
			}
			i = cp.EndIndex + 1
			continue
		}
		out = append(out, ops[i])
		i++
	}
	return out, removed
}

// editImages decides the fate of every Do invocation and inline image
// against areas, blackening samples in place for PartialImagePreserveWithBlackout
// or dropping the invocation otherwise.
func editImages(store external.ObjectStore, pageIndex int, ops []*content.Operation, areas []coord.Rectangle, mode PartialImageMode) ([]*content.Operation, int, error) {
	var out []*content.Operation
	removed := 0

	for _, op := range ops {
		if op.Kind != content.KindImageInvocation || op.Image == nil {
			out = append(out, op)
			continue
		}

		action := imageedit.Decide(op.Image.BBox, areas)
		switch action {
		case imageedit.ActionKeep:
			out = append(out, op)
		case imageedit.ActionDelete:
			removed++
		case imageedit.ActionBlackout:
			if mode == PartialImageRemove {
				removed++
				continue
			}
			if op.Image.Inline {
				res := inlineImageResource(op.Image)
				if res != nil {
					if blacked, ok := imageedit.Blackout(res, op.Image.CTM, areas); ok {
						op.Image.Data = blacked.Data
						out = append(out, op)
						continue
					}
				}
				removed++
				continue
			}
			res, err := store.PageImageResource(pageIndex, string(op.Image.ResourceName))
			if err != nil {
				return nil, removed, &ImageResourceMissingError{PageIndex: pageIndex, Name: string(op.Image.ResourceName)}
			}
			blacked, ok := imageedit.Blackout(res, op.Image.CTM, areas)
			if !ok {
				removed++
				continue
			}
			if err := store.ReplacePageImageResource(pageIndex, string(op.Image.ResourceName), blacked); err != nil {
				return nil, removed, err
			}
			out = append(out, op)
		}
	}
	return out, removed, nil
}

// inlineImageResource builds an external.ImageResource from an inline
// image's parameter dictionary and sample bytes, understanding both the
// abbreviated (W/H/BPC/CS) and spelled-out (Width/Height/BitsPerComponent/
// ColorSpace) inline-image key forms.
func inlineImageResource(img *content.ImageOp) *external.ImageResource {
	w, ok := numericParam(img.Params, "W", "Width")
	if !ok {
		return nil
	}
	h, ok := numericParam(img.Params, "H", "Height")
	if !ok {
		return nil
	}
	bpc, ok := numericParam(img.Params, "BPC", "BitsPerComponent")
	if !ok {
		bpc = 8
	}
	cs := "DeviceGray"
	if v, ok := img.Params["CS"]; ok {
		cs = colorSpaceName(v)
	} else if v, ok := img.Params["ColorSpace"]; ok {
		cs = colorSpaceName(v)
	}

	return &external.ImageResource{
		Data:             img.Data,
		Width:            int(w),
		Height:           int(h),
		BitsPerComponent: int(bpc),
		ColorSpace:       cs,
	}
}

func numericParam(d content.Dict, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := d[content.Name(k)]; ok {
			if n, ok := content.Number(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func colorSpaceName(v content.Object) string {
	n, ok := v.(content.Name)
	if !ok {
		return "DeviceGray"
	}
	switch n {
	case "G", "DeviceGray":
		return "DeviceGray"
	case "RGB", "DeviceRGB":
		return "DeviceRGB"
	default:
		return string(n)
	}
}
