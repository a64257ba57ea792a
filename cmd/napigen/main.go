package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"napigen/internal"
	"napigen/internal/config"
	"napigen/internal/generation"
	"napigen/internal/metadata"
)

type options struct {
	input       string
	methodsFile string
	packageName string
	outputPath  string
	backends    []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var inputFilePath = flag.String("input", "", "The path to the schema file (.yaml, .yml or .json) describing the bound methods.")
	var methodsFilePath = flag.String("methods", "", "The path to a file listing Class::Method entries to generate, one per line. Default: every method of the schema")
	var packageName = flag.String("packageName", cfg.Package, "The name of the package with generated Go code.")
	var outputPath = flag.String("outputPath", cfg.OutputPath, "The path where all generated files will be placed.")
	var backends = flag.String("backend", strings.Join(cfg.Backends, ","), "Comma separated renderers to run: "+strings.Join(generation.Backends(), ", "))
	var forceClean = flag.Bool("forceCleanOutput", cfg.ForceClean, "If given forces cleaning output directory before generation.")
	var watch = flag.Bool("watch", false, "Keep running and regenerate whenever the schema file changes.")
	var printSchema = flag.Bool("schema", false, "Print the JSON Schema of the schema file format and exit.")
	var verbose = flag.Bool("verbose", false, "Enable development logging.")
	flag.Usage = func() {
		fmt.Println("App that generates N-API argument conversions for native bindings.")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *printSchema {
		os.Stdout.Write(internal.Must(metadata.JSONSchemaDocument()))
		fmt.Println()
		return
	}

	level, err := cfg.Level()
	internal.PanicOnError(err)
	logger, err := newLogger(level, *verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	generation.SetLogger(logger.Named("generation"))

	if *inputFilePath == "" {
		log.Fatal("Input file path is missing!")
	} else if _, err := os.Stat(*inputFilePath); errors.Is(err, os.ErrNotExist) {
		log.Fatal("Input file does not exist!")
	}

	opts := options{
		input:       *inputFilePath,
		methodsFile: *methodsFilePath,
		packageName: *packageName,
		outputPath:  *outputPath,
		backends:    config.ParseBackends(*backends),
	}
	for _, name := range opts.backends {
		if _, err := generation.Lookup(name); err != nil {
			log.Fatal(err)
		}
	}

	err = os.Mkdir(opts.outputPath, os.ModePerm)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		panic(err)
	}

	err = ClearDirectoryIfNotEmpty(opts.outputPath, *forceClean)
	internal.PanicOnError(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	styled := term.IsTerminal(int(os.Stdout.Fd()))

	files, err := generate(ctx, logger, opts)
	if err != nil {
		log.Fatal(err)
	}
	printSummary(os.Stdout, files, styled)

	if !*watch {
		return
	}

	logger.Info("watching schema", zap.String("file", opts.input), zap.Duration("debounce", cfg.WatchDebounce))
	err = watchSchema(ctx, logger, opts.input, cfg.WatchDebounce, func() {
		files, err := generate(ctx, logger, opts)
		if err != nil {
			logger.Error("regeneration failed", zap.Error(err))
			return
		}
		printSummary(os.Stdout, files, styled)
	})
	if err != nil {
		log.Fatal(err)
	}
}

func newLogger(level zapcore.Level, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// generate loads the schema, registers the selected methods and renders them.
func generate(ctx context.Context, logger *zap.Logger, opts options) ([]string, error) {
	metadataReader, err := metadata.NewReader(opts.input)
	if err != nil {
		return nil, err
	}
	generator := generation.NewGenerator(opts.packageName, opts.outputPath)

	if opts.methodsFile == "" {
		generator.RegisterSchema(metadataReader.Schema())
		return generator.Generate(ctx, opts.backends...)
	}

	file, err := os.Open(opts.methodsFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileScanner := bufio.NewScanner(file)
	for fileScanner.Scan() {
		line := strings.TrimSpace(fileScanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		methodElement, found := metadataReader.TryGetMethod(line)
		if found {
			generator.RegisterMethod(methodElement)
			continue
		}

		logger.Warn("method not found in schema", zap.String("method", line), zap.String("schema", opts.input))
	}
	if err := fileScanner.Err(); err != nil {
		return nil, err
	}

	return generator.Generate(ctx, opts.backends...)
}

func ClearDirectoryIfNotEmpty(path string, silent bool) error {
	directory, err := os.Open(path)
	if err != nil {
		return err
	}
	defer directory.Close()

	_, err = directory.Readdirnames(1)
	if err == io.EOF {
		return nil
	}

	if err != nil {
		return err
	}

	var response string
	if !silent {
		fmt.Print("Output directory is not empty. Continuation will result in removing all output file. Proceed? [Y/n]")
		fmt.Scan(&response)
		if strings.ToUpper(response) != "Y" {
			log.Fatal("Explicit agreement was not given. Exiting.")
		}
	}

	fmt.Println("Cleaning output directory.")
	return os.RemoveAll(path)
}
