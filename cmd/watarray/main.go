// Command watarray builds and queries WatArray indexes.
//
//	watarray build  -i input -w index
//	watarray query  -w index <op> <args...>
//	watarray search -l filelist [-o index] [-d index]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	watarray "github.com/AlexWan0/go-watarray"
	"github.com/AlexWan0/go-watarray/docsearch"
	"go.uber.org/zap"
)

// exit codes
const (
	ecOK = iota
	ecUsage
	ecError
)

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  watarray build  -i input -w index")
	fmt.Fprintln(w, "  watarray query  -w index <op> <args...>")
	fmt.Fprintln(w, "  watarray search (-l filelist [-o index] | -d index)")
	fmt.Fprintln(w, "ops:", strings.Join(opNames(), ", "))
}

func newLogger(verbose bool) *zap.SugaredLogger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return ecUsage
	}
	var err error
	switch args[1] {
	case "build":
		err = buildCmd(args[2:], stdout)
	case "query":
		err = queryCmd(args[2:], stdout)
	case "search":
		err = searchCmd(args[2:], stdin, stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return ecOK
	default:
		err = errUsage
	}
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		usage(stderr)
		return ecUsage
	}
	if err != nil {
		fmt.Fprintln(stderr, "watarray:", err)
		return ecError
	}
	return ecOK
}

func buildCmd(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("watarray build", flag.ContinueOnError)
	input := flags.String("i", "", "input data: whitespace separated unsigned integers")
	index := flags.String("w", "", "watarray index file to write")
	verbose := flags.Bool("v", false, "verbose logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *input == "" || *index == "" {
		return errUsage
	}
	log := newLogger(*verbose)
	defer log.Sync()

	vals, err := readArrayFromFile(*input)
	if err != nil {
		return err
	}
	log.Debugw("read input", "file", *input, "values", len(vals))

	wa, err := watarray.New(vals)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := saveIndex(wa, *index); err != nil {
		return err
	}
	log.Infow("index built",
		"index", *index, "length", wa.Length(), "alphabetNum", wa.AlphabetNum())
	return nil
}

func queryCmd(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("watarray query", flag.ContinueOnError)
	index := flags.String("w", "", "watarray index file")
	verbose := flags.Bool("v", false, "verbose logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *index == "" || flags.NArg() == 0 {
		return errUsage
	}
	log := newLogger(*verbose)
	defer log.Sync()

	wa, err := loadIndex(*index)
	if err != nil {
		return err
	}
	log.Debugw("index loaded", "index", *index, "length", wa.Length())

	out, err := runQuery(wa, flags.Arg(0), flags.Args()[1:])
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

func searchCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := flag.NewFlagSet("watarray search", flag.ContinueOnError)
	list := flags.String("l", "", "file listing the documents, one path per line")
	save := flags.String("o", "", "write the document index to this file")
	load := flags.String("d", "", "read the document index from this file")
	verbose := flags.Bool("v", false, "verbose logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if (*list == "") == (*load == "") {
		return errUsage
	}
	log := newLogger(*verbose)
	defer log.Sync()

	var ix *docsearch.Index
	var err error
	if *list != "" {
		ix, err = docsearch.BuildFromFileList(*list)
		if err != nil {
			return err
		}
		log.Infow("documents indexed", "files", len(ix.Names), "length", len(ix.Text))
		if *save != "" {
			if err := writeFile(*save, ix.Save); err != nil {
				return err
			}
			log.Infow("document index saved", "index", *save)
		}
	} else {
		f, err := os.Open(*load)
		if err != nil {
			return err
		}
		ix, err = docsearch.Load(bufio.NewReader(f))
		f.Close()
		if err != nil {
			return err
		}
		log.Debugw("document index loaded", "index", *load, "files", len(ix.Names))
	}

	sc := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, ">")
		if !sc.Scan() {
			fmt.Fprintln(stdout)
			return sc.Err()
		}
		res, err := ix.Search(sc.Bytes())
		if err != nil {
			log.Errorw("search failed", "query", sc.Text(), "error", err)
			continue
		}
		fmt.Fprintf(stdout, "Hit Positions:%d\n", res.Hits())
		fmt.Fprintf(stdout, "     Hit Docs:%d\n", len(res.Docs))
		fmt.Fprintf(stdout, "  Distinct WA:%d\n", res.DocNum)
		for _, d := range res.Docs {
			fmt.Fprintf(stdout, "  %s\n", ix.Names[d])
		}
	}
}

func readArrayFromFile(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readArray(f)
}

func readArray(r io.Reader) ([]uint64, error) {
	vals := make([]uint64, 0)
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		val, err := strconv.ParseUint(sc.Text(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(vals), err)
		}
		vals = append(vals, val)
	}
	return vals, sc.Err()
}

func writeFile(path string, save func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := save(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveIndex(wa *watarray.WatArray, path string) error {
	return writeFile(path, wa.Save)
}

func loadIndex(path string) (*watarray.WatArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	wa := &watarray.WatArray{}
	if err := wa.Load(bufio.NewReader(f)); err != nil {
		return nil, err
	}
	return wa, nil
}
