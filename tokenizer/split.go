package tokenizer

import (
	"strings"

	"github.com/wippyai/vm-abi/errors"
)

// unwrap strips a matching outer pair of delimiters. The opening delimiter
// must be closed by the final character, so "[1],[2]" is rejected.
func unwrap(s string, left, right byte, path []string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != left || s[len(s)-1] != right {
		return "", errors.New(errors.PhaseTokenize, errors.KindInvalidData).
			Path(path...).
			Value(s).
			Detail("expected value enclosed in %c%c, got %q", left, right, s).
			Build()
	}

	end, err := matchingClose(s, left, right, path)
	if err != nil {
		return "", err
	}
	if end != len(s)-1 {
		return "", errors.New(errors.PhaseTokenize, errors.KindInvalidData).
			Path(path...).
			Value(s).
			Detail("unexpected data after position %d in %q", end, s).
			Build()
	}
	return s[1 : len(s)-1], nil
}

// matchingClose returns the index of the delimiter closing s[0]. Only
// delimiters of the same pair are counted; mismatched inner pairs are left
// to splitTopLevel.
func matchingClose(s string, left, right byte, path []string) (int, error) {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		switch c {
		case left:
			depth++
		case right:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	if inQuote {
		return 0, unbalancedQuotes(s, path)
	}
	return 0, unbalancedOpen(s, path)
}

// splitTopLevel splits s on commas that are not nested in brackets,
// parentheses or double quotes. An empty or blank s has no parts.
func splitTopLevel(s string, path []string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var parts []string
	depth := 0
	inQuote := false
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		switch c {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return nil, unbalancedClose(s, path)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if inQuote {
		return nil, unbalancedQuotes(s, path)
	}
	if depth > 0 {
		return nil, unbalancedOpen(s, path)
	}
	return append(parts, strings.TrimSpace(s[start:])), nil
}

func unbalancedOpen(s string, path []string) error {
	return errors.New(errors.PhaseTokenize, errors.KindInvalidData).
		Path(path...).
		Value(s).
		Detail("unbalanced brackets: unclosed opening bracket in %q", s).
		Build()
}

func unbalancedClose(s string, path []string) error {
	return errors.New(errors.PhaseTokenize, errors.KindInvalidData).
		Path(path...).
		Value(s).
		Detail("unbalanced brackets: closing bracket without opening in %q", s).
		Build()
}

func unbalancedQuotes(s string, path []string) error {
	return errors.New(errors.PhaseTokenize, errors.KindInvalidData).
		Path(path...).
		Value(s).
		Detail("unbalanced quotes in %q", s).
		Build()
}

func checkCount(parts []string, want int, what string, path []string) error {
	if len(parts) == want {
		return nil
	}
	word := "few"
	if len(parts) > want {
		word = "many"
	}
	return errors.New(errors.PhaseTokenize, errors.KindInvalidData).
		Path(path...).
		Value(len(parts)).
		Detail("too %s %s: expected %d, got %d", word, what, want, len(parts)).
		Build()
}
