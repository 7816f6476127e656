package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/alem-hub/gradebook/internal/application/command"
)

const gradePrompt = "Enter the grade (or 'done' to finish): "

// lineReader reads one line per prompt. A final line without a newline is
// still returned; io.EOF comes after it.
type lineReader struct {
	r    *bufio.Reader
	view *Presenter
}

func newLineReader(in io.Reader, view *Presenter) *lineReader {
	return &lineReader{r: bufio.NewReader(in), view: view}
}

// ReadLine prints prompt and returns the next line without its terminator.
// Only the input ends a read: ctx cancellation is not observed.
func (l *lineReader) ReadLine(_ context.Context, prompt string) (string, error) {
	l.view.Prompt(prompt)

	line, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// gradeTokens adapts the reader to the grade ingestion loop.
func (l *lineReader) gradeTokens() command.TokenSource {
	return command.TokenSourceFunc(func(ctx context.Context) (string, error) {
		return l.ReadLine(ctx, gradePrompt)
	})
}
