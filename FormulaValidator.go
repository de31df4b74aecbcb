package main

import "strings"

const FormulaPrefix = "="

// IsFormula checks the formula grammar on already upper-cased text: a leading
// "=", a non-empty body of digits, letters A-Z, ".", "+-*/" and parentheses,
// balanced parentheses at every prefix, and no operator next to another one.
// A sign is allowed at the start of the body or right after "(".
func IsFormula(text string) bool {
	body, found := strings.CutPrefix(text, FormulaPrefix)
	if !found || body == "" {
		return false
	}

	balance := 0
	var previous byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case isDigit(c), isLetter(c), c == '.':
		case c == '(':
			balance++
		case c == ')':
			balance--
			if balance < 0 {
				return false
			}
		case isOperator(c):
			if i == len(body)-1 || isOperator(previous) {
				return false
			}
			if (i == 0 || previous == '(') && !isSign(c) {
				return false
			}
		default:
			return false
		}
		previous = c
	}

	return balance == 0
}

func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/'
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
