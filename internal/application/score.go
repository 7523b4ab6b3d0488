package app

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrScoreLengths = errors.New("truth and prediction lengths differ")

// ScoreClasses классы, для которых строится матрица ошибок и отчёт.
var ScoreClasses = []string{"breakage", "inclusion", "crater", "bulge", "scratch", "run", "background"}

// ClassScore метрики одного класса.
type ClassScore struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Score итог оценки ответов.
type Score struct {
	Total          int
	Accuracy       float64
	MacroPrecision float64
	MacroF1        float64
	Classes        []string
	PerClass       []ClassScore
	// Confusion строки истинные классы, столбцы предсказанные.
	Confusion *mat.Dense
}

// ScorePredictions считает точность, макро-precision и макро-F1 по
// объединению встреченных меток. Деление на ноль даёт 0.
func ScorePredictions(truth, pred, classes []string) (*Score, error) {
	if len(truth) != len(pred) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrScoreLengths, len(truth), len(pred))
	}
	s := &Score{Total: len(truth), Classes: slices.Clone(classes)}
	if len(classes) > 0 {
		s.Confusion = mat.NewDense(len(classes), len(classes), nil)
	}
	if len(truth) == 0 {
		s.PerClass = perClass(classes, truth, pred)
		return s, nil
	}

	correct := 0
	for i := range truth {
		if truth[i] == pred[i] {
			correct++
		}
		r, c := slices.Index(classes, truth[i]), slices.Index(classes, pred[i])
		if r >= 0 && c >= 0 {
			s.Confusion.Set(r, c, s.Confusion.At(r, c)+1)
		}
	}
	s.Accuracy = float64(correct) / float64(len(truth))

	union := unionLabels(truth, pred)
	macro := perClass(union, truth, pred)
	precisions := make([]float64, len(macro))
	f1s := make([]float64, len(macro))
	for i, cs := range macro {
		precisions[i] = cs.Precision
		f1s[i] = cs.F1
	}
	s.MacroPrecision = floats.Sum(precisions) / float64(len(macro))
	s.MacroF1 = floats.Sum(f1s) / float64(len(macro))
	s.PerClass = perClass(classes, truth, pred)
	return s, nil
}

func unionLabels(truth, pred []string) []string {
	set := make(map[string]struct{})
	for _, l := range truth {
		set[l] = struct{}{}
	}
	for _, l := range pred {
		set[l] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func perClass(labels, truth, pred []string) []ClassScore {
	out := make([]ClassScore, 0, len(labels))
	for _, l := range labels {
		var tp, fp, fn int
		for i := range truth {
			switch {
			case truth[i] == l && pred[i] == l:
				tp++
			case pred[i] == l:
				fp++
			case truth[i] == l:
				fn++
			}
		}
		cs := ClassScore{Label: l, Support: tp + fn}
		cs.Precision = ratio(tp, tp+fp)
		cs.Recall = ratio(tp, tp+fn)
		if cs.Precision+cs.Recall > 0 {
			cs.F1 = 2 * cs.Precision * cs.Recall / (cs.Precision + cs.Recall)
		}
		out = append(out, cs)
	}
	return out
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// WriteReport печатает сводку, поклассовый отчёт и матрицу ошибок.
func WriteReport(w io.Writer, s *Score) error {
	var b strings.Builder
	fmt.Fprintf(&b, "total: %d\n", s.Total)
	fmt.Fprintf(&b, "accuracy: %.4f\n", s.Accuracy)
	fmt.Fprintf(&b, "macro precision: %.4f\n", s.MacroPrecision)
	fmt.Fprintf(&b, "macro f1: %.4f\n\n", s.MacroF1)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "class\tprecision\trecall\tf1\tsupport\t")
	for _, cs := range s.PerClass {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%d\t\n", cs.Label, cs.Precision, cs.Recall, cs.F1, cs.Support)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.Confusion != nil {
		fmt.Fprintf(&b, "\nconfusion matrix (rows: truth, cols: prediction)\n%s\n", strings.Join(s.Classes, " "))
		fmt.Fprintf(&b, "%v\n", mat.Formatted(s.Confusion, mat.Squeeze()))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
