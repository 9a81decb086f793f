// Package cardsource extracts card content from the Q:/A:/C: markdown
// convention used by knolcards sources.
package cardsource

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/knolcards/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	contextPrefix  = "C:"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingContext
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.CardContent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards.
func Parse(r io.Reader) ([]domain.CardContent, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.CardContent
	var current domain.CardContent
	var block []string
	cur := seeking

	finish := func() {
		if current.Question != "" {
			cards = append(cards, current)
		}
		current = domain.CardContent{}
	}

	flush := func() {
		switch cur {
		case readingQuestion:
			current.Question = strings.TrimSpace(strings.Join(block, "\n"))
		case readingAnswer:
			current.Answer = strings.TrimSpace(strings.Join(block, "\n"))
		case readingContext:
			current.Context = strings.TrimSpace(strings.Join(block, "\n"))
		}
		block = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		isQ := strings.HasPrefix(line, questionPrefix)
		isA := strings.HasPrefix(line, answerPrefix)
		isC := strings.HasPrefix(line, contextPrefix)

		switch {
		case isQ:
			flush()
			finish()
			cur = readingQuestion
			block = append(block, strings.TrimSpace(strings.TrimPrefix(line, questionPrefix)))
		case isA:
			flush()
			cur = readingAnswer
			block = append(block, strings.TrimSpace(strings.TrimPrefix(line, answerPrefix)))
		case isC:
			flush()
			cur = readingContext
			block = append(block, strings.TrimSpace(strings.TrimPrefix(line, contextPrefix)))
		case cur != seeking:
			block = append(block, line)
		}
	}

	flush()
	finish()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
