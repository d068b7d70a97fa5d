package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pspoerri/surveygrid/internal/coord"
	"github.com/pspoerri/surveygrid/internal/survey"
)

func main() {
	var (
		surveyPath string
		inverse    bool
		raw        bool
	)
	flag.StringVar(&surveyPath, "survey", "", "Survey file or directory (required)")
	flag.BoolVar(&inverse, "inverse", false, "Convert easting/northing to inline/crossline")
	flag.BoolVar(&raw, "raw", false, "With -inverse, print the unsnapped line numbers")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: linecoord -survey <file.survey> [-inverse [-raw]] < pairs\n\n")
		fmt.Fprintf(os.Stderr, "Reads one pair per line (whitespace or comma separated). Extra columns,\n")
		fmt.Fprintf(os.Stderr, "such as a z value, are passed through unchanged.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if surveyPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	if info, err := os.Stat(surveyPath); err == nil && info.IsDir() {
		if f := survey.FindSurveyFile(surveyPath); f != "" {
			surveyPath = f
		}
	}

	g, err := survey.Load(surveyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	conv, err := coord.NewConverter(*g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mode := forward
	if inverse {
		mode = snapped
		if raw {
			mode = unsnapped
		}
	}

	failed, err := convert(os.Stdin, os.Stdout, os.Stderr, conv, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

type direction int

const (
	forward direction = iota
	snapped
	unsnapped
)

// convert transforms each input line and reports bad lines on errw. It
// returns the number of lines that could not be converted.
func convert(r io.Reader, w, errw io.Writer, conv *coord.Converter, mode direction) (int, error) {
	out := bufio.NewWriter(w)
	defer out.Flush()

	sc := bufio.NewScanner(r)
	lineNo, failed := 0, 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) < 2 {
			fmt.Fprintf(errw, "line %d: need two values, got %q\n", lineNo, text)
			failed++
			continue
		}
		a, errA := strconv.ParseFloat(fields[0], 64)
		b, errB := strconv.ParseFloat(fields[1], 64)
		if errA != nil || errB != nil {
			fmt.Fprintf(errw, "line %d: not a number pair: %q\n", lineNo, text)
			failed++
			continue
		}

		var x, y float64
		var err error
		switch mode {
		case forward:
			x, y = conv.LineToCoord(a, b)
		case snapped:
			x, y, err = conv.CoordToLine(a, b)
		case unsnapped:
			x, y, err = conv.CoordToLineRaw(a, b)
		}
		if err != nil {
			fmt.Fprintf(errw, "line %d: %v\n", lineNo, err)
			failed++
			continue
		}

		res := []string{formatValue(x, mode), formatValue(y, mode)}
		fmt.Fprintln(out, strings.Join(append(res, fields[2:]...), " "))
	}
	return failed, sc.Err()
}

func formatValue(v float64, mode direction) string {
	if mode == snapped {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
