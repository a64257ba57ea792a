package generation

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"napigen/internal/conversion"
	"napigen/internal/errors"
	"napigen/internal/metadata"
)

type Generator struct {
	Methods     map[string][]metadata.Method
	PackageName string
	OutputPath  string
}

func NewGenerator(packageName string, outputPath string) Generator {
	return Generator{
		make(map[string][]metadata.Method),
		packageName,
		outputPath,
	}
}

// RegisterMethod queues a method for generation. Registering the same method twice keeps the latest.
func (generator *Generator) RegisterMethod(element metadata.Method) {
	methods := generator.Methods[element.Class]
	for i, existing := range methods {
		if existing.Name == element.Name {
			methods[i] = element
			return
		}
	}
	generator.Methods[element.Class] = append(methods, element)
}

func (generator *Generator) RegisterSchema(schema metadata.Schema) {
	for _, method := range schema.Methods {
		generator.RegisterMethod(method)
	}
}

// Units converts the registered methods, one unit per class, classes and methods sorted by name.
func (generator *Generator) Units() ([]Unit, error) {
	classes := make([]string, 0, len(generator.Methods))
	for class := range generator.Methods {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	units := make([]Unit, 0, len(classes))
	for _, class := range classes {
		methods := append([]metadata.Method(nil), generator.Methods[class]...)
		sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })

		unit := Unit{Class: class, Package: generator.PackageName}
		for _, method := range methods {
			blocks, err := conversion.ConvertMethod(method)
			if err != nil {
				return nil, err
			}
			for _, block := range blocks {
				Logger().Debug("converted parameter",
					zap.String("class", class),
					zap.String("method", method.Name),
					zap.String("param", block.Param.Name),
					zap.Stringer("path", block.Path))
			}
			unit.Methods = append(unit.Methods, ConvertedMethod{Method: method, Blocks: blocks})
		}
		units = append(units, unit)
	}
	return units, nil
}

// Generate renders every class with each backend into the output path and returns
// the written files in order.
func (generator *Generator) Generate(ctx context.Context, backends ...string) ([]string, error) {
	if len(backends) == 0 {
		backends = []string{"cpp"}
	}

	renderers := make([]Renderer, 0, len(backends))
	for _, name := range backends {
		renderer, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, renderer)
	}

	units, err := generator.Units()
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(generator.OutputPath, os.ModePerm)
	if err != nil && !stderrors.Is(err, fs.ErrExist) {
		return nil, errors.Wrap(errors.PhaseRender, errors.KindIO, err, "creating output directory")
	}

	written := make([]string, 0, len(units)*len(renderers))
	for _, renderer := range renderers {
		for _, unit := range units {
			if err := ctx.Err(); err != nil {
				return written, err
			}

			var buf bytes.Buffer
			if err := renderer.Render(&buf, unit); err != nil {
				return written, err
			}

			path := filepath.Join(generator.OutputPath, renderer.FileName(unit.Class))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return written, errors.Wrap(errors.PhaseRender, errors.KindIO, err, "writing "+path)
			}
			written = append(written, path)

			Logger().Info("generated",
				zap.String("backend", renderer.Name()),
				zap.String("class", unit.Class),
				zap.Int("methods", len(unit.Methods)),
				zap.String("file", path))
		}
	}

	return written, nil
}
