package accounts

import (
	"errors"
	"fmt"
	"strings"

	"checkinbot/internal/domain"
)

// ParseList parses the raw account-list text into an ordered account
// sequence. Two formats are recognized:
//
//  1. one account per line: "email,password"
//  2. alternating lines: email on one line, password on the next
//
// Blank lines and lines starting with '#' are ignored. If any remaining
// line contains a comma, the whole input is treated as format 1.
func ParseList(text string) ([]domain.Account, error) {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		lines = append(lines, ln)
	}

	if len(lines) == 0 {
		return nil, errors.New("account list is empty")
	}

	commaFormat := false
	for _, ln := range lines {
		if strings.Contains(ln, ",") {
			commaFormat = true
			break
		}
	}

	if commaFormat {
		accounts := make([]domain.Account, 0, len(lines))
		for _, ln := range lines {
			email, password, ok := strings.Cut(ln, ",")
			if !ok {
				return nil, fmt.Errorf("mixed account list formats: line %q has no comma", ln)
			}
			email = strings.TrimSpace(email)
			password = strings.TrimSpace(password)
			if email == "" || password == "" {
				return nil, fmt.Errorf("malformed account line %q: empty email or password", ln)
			}
			accounts = append(accounts, domain.Account{Email: email, Password: password})
		}
		return accounts, nil
	}

	if len(lines)%2 != 0 {
		return nil, errors.New("alternating-line account list must have an even number of lines")
	}

	accounts := make([]domain.Account, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		accounts = append(accounts, domain.Account{Email: lines[i], Password: lines[i+1]})
	}
	return accounts, nil
}
