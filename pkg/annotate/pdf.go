package annotate

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const xobjectPrefix = "Sig"

// page is a mutable view of a single page dictionary inside a loaded document.
type page struct {
	ctx    *model.Context
	number int
	dict   types.Dict
	width  float64
	height float64
	inh    *model.InheritedPageAttrs
}

func openPage(ctx *model.Context, pageNr int) (*page, error) {
	d, _, inh, err := ctx.PageDict(pageNr, true)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrLoad, pageNr, err)
	}
	if d == nil || inh == nil || inh.MediaBox == nil {
		return nil, fmt.Errorf("%w: page %d has no media box", ErrLoad, pageNr)
	}

	return &page{
		ctx:    ctx,
		number: pageNr,
		dict:   d,
		width:  inh.MediaBox.Width(),
		height: inh.MediaBox.Height(),
		inh:    inh,
	}, nil
}

// resources returns a page-local copy of the effective resource dictionary,
// installing it on the page so later edits do not leak into shared parents.
func (p *page) resources() (types.Dict, error) {
	var src types.Dict

	if obj, ok := p.dict.Find("Resources"); ok && obj != nil {
		d, err := p.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("page %d resources: %w", p.number, err)
		}
		src = d
	} else if p.inh.Resources != nil {
		src = p.inh.Resources
	}

	res := copyDict(src)
	p.dict["Resources"] = res
	return res, nil
}

func (p *page) xobjects(res types.Dict) (types.Dict, error) {
	var src types.Dict

	if obj, ok := res.Find("XObject"); ok && obj != nil {
		d, err := p.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("page %d xobjects: %w", p.number, err)
		}
		src = d
	}

	xobj := copyDict(src)
	res["XObject"] = xobj
	return xobj, nil
}

// embed adds img to the document as an image XObject registered in the page
// resources and returns the resource name it was bound to.
//
// The bytes must decode as the format chosen for them; JPEG data is passed
// through as DCTDecode and transparency becomes a soft mask.
func (p *page) embed(img Image) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, img.Format, err)
	}
	if Format(format) != img.Format {
		return "", fmt.Errorf("%w: expected %s, data is %s", ErrDecode, img.Format, format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", fmt.Errorf("%w: empty %s bitmap", ErrDecode, img.Format)
	}

	ref, _, _, err := model.CreateImageResource(p.ctx.XRefTable, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, img.Format, err)
	}

	res, err := p.resources()
	if err != nil {
		return "", err
	}

	xobj, err := p.xobjects(res)
	if err != nil {
		return "", err
	}

	name := uniqueName(xobj)
	xobj[name] = *ref

	return name, nil
}

// draw appends a content stream painting the named XObject into rect.
// The existing page content is wrapped in its own graphics state so
// transforms left open by the original producer cannot distort the image.
// Readers concatenate a page's streams, so both added streams are delimited
// by newlines on either side of the existing content.
func (p *page) draw(name string, rect Rect) error {
	existing, err := p.contents()
	if err != nil {
		return err
	}

	var ops strings.Builder
	if len(existing) > 0 {
		ops.WriteString("\nQ\n")
	}
	ops.WriteString("q\n")
	fmt.Fprintf(&ops, "%s 0 0 %s %s %s cm\n",
		formatNum(rect.Width), formatNum(rect.Height), formatNum(rect.X), formatNum(rect.Y))
	fmt.Fprintf(&ops, "/%s Do\n", name)
	ops.WriteString("Q\n")

	drawRef, err := p.newContentStream([]byte(ops.String()))
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		p.dict["Contents"] = *drawRef
		return nil
	}

	saveRef, err := p.newContentStream([]byte("q\n"))
	if err != nil {
		return err
	}

	contents := make(types.Array, 0, len(existing)+2)
	contents = append(contents, *saveRef)
	contents = append(contents, existing...)
	contents = append(contents, *drawRef)
	p.dict["Contents"] = contents

	return nil
}

// contents flattens the page Contents entry into a list of stream references.
func (p *page) contents() (types.Array, error) {
	obj, ok := p.dict.Find("Contents")
	if !ok || obj == nil {
		return nil, nil
	}

	resolved, err := p.ctx.Dereference(obj)
	if err != nil {
		return nil, fmt.Errorf("page %d contents: %w", p.number, err)
	}

	switch v := resolved.(type) {
	case types.Array:
		out := make(types.Array, 0, len(v))
		out = append(out, v...)
		return out, nil
	case types.StreamDict:
		if ref, ok := obj.(types.IndirectRef); ok {
			return types.Array{ref}, nil
		}
		r, err := p.ctx.IndRefForNewObject(v)
		if err != nil {
			return nil, fmt.Errorf("page %d contents: %w", p.number, err)
		}
		return types.Array{*r}, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("page %d contents: unexpected %T", p.number, resolved)
	}
}

func (p *page) newContentStream(content []byte) (*types.IndirectRef, error) {
	sd := types.StreamDict{
		Dict:           types.NewDict(),
		Content:        content,
		FilterPipeline: []types.PDFFilter{{Name: filter.Flate}},
	}
	sd.InsertName("Filter", filter.Flate)

	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("encode content stream: %w", err)
	}

	ref, err := p.ctx.IndRefForNewObject(sd)
	if err != nil {
		return nil, fmt.Errorf("add content stream: %w", err)
	}
	return ref, nil
}

// countImages reports how many image XObjects the page resources reference.
func (p *page) countImages() int {
	obj, ok := p.dict.Find("Resources")
	var res types.Dict
	if ok && obj != nil {
		d, err := p.ctx.DereferenceDict(obj)
		if err != nil {
			return 0
		}
		res = d
	} else {
		res = p.inh.Resources
	}
	if res == nil {
		return 0
	}

	xo, ok := res.Find("XObject")
	if !ok {
		return 0
	}
	xobj, err := p.ctx.DereferenceDict(xo)
	if err != nil || xobj == nil {
		return 0
	}

	n := 0
	for _, v := range xobj {
		sd, _, err := p.ctx.DereferenceStreamDict(v)
		if err != nil || sd == nil {
			continue
		}
		if st := sd.Subtype(); st != nil && *st == "Image" {
			n++
		}
	}
	return n
}

func uniqueName(xobj types.Dict) string {
	for i := 1; ; i++ {
		name := xobjectPrefix + strconv.Itoa(i)
		if _, taken := xobj[name]; !taken {
			return name
		}
	}
}

func copyDict(src types.Dict) types.Dict {
	dst := types.NewDict()
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
