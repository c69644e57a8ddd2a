package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/peerlens/internal/services"
)

type summarizeOptions struct {
	input       string
	subject     string
	lexicon     string
	format      string
	render      bool
	scalePoints int
	workers     int
}

func newSummarizeCmd() *cobra.Command {
	opts := &summarizeOptions{}
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize reviews read from a JSON file",
		Long: `Summarize reads reviews from --input ("-" for stdin). The file holds either a
JSON array of reviews or an object with a "reviews" array. Without --subject
every subject found in the file is summarized.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "input", "", "Reviews JSON file, or - for stdin")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "Only summarize this subject")
	cmd.Flags().StringVar(&opts.lexicon, "lexicon", "", "YAML lexicon file")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format (json, markdown, csv)")
	cmd.Flags().BoolVar(&opts.render, "render", false, "Render markdown for the terminal")
	cmd.Flags().IntVar(&opts.scalePoints, "scale-points", services.DefaultScalePoints, "Highest accepted rating; also the minimum distribution length")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "Subjects summarized in parallel")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// inputReview lets files omit the derived fields of a review.
type inputReview struct {
	services.Review
	OverallRating *float64 `json:"overall_rating"`
	Complete      *bool    `json:"complete"`
}

func decodeReviews(data []byte) ([]services.Review, error) {
	var list []inputReview
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Reviews []inputReview `json:"reviews"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		list = wrapped.Reviews
	} else if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}

	out := make([]services.Review, 0, len(list))
	for _, in := range list {
		rv := in.Review
		rv.OverallRating = services.OverallRating(rv.Responses)
		if in.OverallRating != nil {
			rv.OverallRating = *in.OverallRating
		}
		rv.Complete = in.Complete == nil || *in.Complete
		out = append(out, rv)
	}
	return out, nil
}

// reviewSet serves decoded reviews to the summary service.
type reviewSet map[string][]services.Review

func (s reviewSet) ListReviewsBySubject(subjectID string) ([]services.Review, error) {
	return s[subjectID], nil
}

func (s reviewSet) subjects() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func runSummarize(ctx context.Context, stdin io.Reader, stdout io.Writer, opts *summarizeOptions) error {
	switch opts.format {
	case "json", "markdown", "csv":
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.scalePoints < 2 || opts.scalePoints > services.MaxScalePoints {
		return fmt.Errorf("--scale-points must be between 2 and %d", services.MaxScalePoints)
	}

	var data []byte
	var err error
	if opts.input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(opts.input)
	}
	if err != nil {
		return runtimeErr(err)
	}
	reviews, err := decodeReviews(data)
	if err != nil {
		return runtimeErr(fmt.Errorf("decode %s: %w", opts.input, err))
	}
	if err := services.CheckRatings(reviews, opts.scalePoints); err != nil {
		return runtimeErr(fmt.Errorf("%s: %w", opts.input, err))
	}
	lex, err := services.LoadLexicon(opts.lexicon)
	if err != nil {
		return runtimeErr(err)
	}

	set := reviewSet{}
	for _, rv := range reviews {
		set[rv.SubjectID] = append(set[rv.SubjectID], rv)
	}
	ids := set.subjects()
	if opts.subject != "" {
		ids = []string{opts.subject}
	}
	if len(ids) == 0 {
		return runtimeErr(fmt.Errorf("%s contains no reviews", opts.input))
	}

	summarizer := services.NewSummarizer(lex, services.WithScalePoints(opts.scalePoints))
	svc := services.NewSummaryService(set, summarizer, opts.workers)
	batch, err := svc.SummarizeSubjects(ctx, ids)
	if err != nil {
		return runtimeErr(err)
	}
	if len(batch.Summaries) == 0 {
		err := fmt.Errorf("%w: %v", services.ErrEmptyReviewSet, batch.Empty)
		if opts.subject != "" {
			if near := suggestSubjects(opts.subject, set.subjects()); len(near) > 0 {
				err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(near, ", "))
			}
		}
		return runtimeErr(err)
	}
	if opts.render && opts.format == "markdown" {
		var buf bytes.Buffer
		if err := writeSummaries(&buf, opts.format, batch.Summaries); err != nil {
			return runtimeErr(err)
		}
		return runtimeErr(renderMarkdown(stdout, buf.String()))
	}
	return runtimeErr(writeSummaries(stdout, opts.format, batch.Summaries))
}

// suggestSubjects returns up to three subject ids that fuzzily match id.
func suggestSubjects(id string, known []string) []string {
	matches := fuzzy.Find(id, known)
	out := make([]string, 0, 3)
	for _, m := range matches {
		if len(out) == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeSummaries(w io.Writer, format string, sums []*services.PeerReviewSummary) error {
	switch format {
	case "markdown":
		for i, s := range sums {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if _, err := io.WriteString(w, services.RenderSummaryMarkdown(s)); err != nil {
				return err
			}
		}
		return nil
	case "csv":
		for i, s := range sums {
			b, err := services.ExportSummaryCSV(s)
			if err != nil {
				return err
			}
			if i > 0 {
				// drop the repeated header row
				if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
					b = b[nl+1:]
				}
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(sums) == 1 {
			return enc.Encode(sums[0])
		}
		return enc.Encode(sums)
	}
}
