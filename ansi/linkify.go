package ansi

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var linkPrefixes = []string{"https://", "http://", "www."}

// urlPunctuation lists the non-alphanumeric characters a link may contain.
// Quotes, angle brackets, backticks and whitespace end a link.
const urlPunctuation = "-._~:/?#[]@!$&()*+,;=%"

func isURLChar(r rune) bool {
	if r < utf8.RuneSelf {
		return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			strings.IndexByte(urlPunctuation, byte(r)) >= 0
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

type linkMatch struct {
	start, end int
	url        string
}

// findLinks scans text for URLs. A link starts with one of linkPrefixes at the
// beginning of text or right after whitespace, and runs greedily over URL
// characters, so a scheme nested inside a query string stays part of it.
func findLinks(text string) []linkMatch {
	var matches []linkMatch
	prev := ' '
	for i := 0; i < len(text); {
		if unicode.IsSpace(prev) {
			if end, prefix := matchLink(text, i); end > i {
				url := text[i:end]
				if prefix == "www." {
					url = "http://" + url
				}
				matches = append(matches, linkMatch{start: i, end: end, url: url})
				prev, _ = utf8.DecodeLastRuneInString(text[:end])
				i = end
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		prev = r
		i += size
	}
	return matches
}

// matchLink returns the end of a link starting at i, or i when there is none.
func matchLink(text string, i int) (int, string) {
	for _, prefix := range linkPrefixes {
		if !strings.HasPrefix(text[i:], prefix) {
			continue
		}
		body := i + len(prefix)
		end := body
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isURLChar(r) {
				break
			}
			end += size
		}
		end = i + len(trimUnbalanced(text[i:end]))
		if end <= body {
			return i, ""
		}
		return end, prefix
	}
	return i, ""
}

// trimUnbalanced drops trailing closing brackets that were never opened inside
// the link, so "(see www.example.com)" keeps its parenthesis outside. Bracket
// counts are taken once and adjusted as bytes are trimmed.
func trimUnbalanced(url string) string {
	parens := strings.Count(url, "(") - strings.Count(url, ")")
	brackets := strings.Count(url, "[") - strings.Count(url, "]")
	for len(url) > 0 {
		switch url[len(url)-1] {
		case ')':
			if parens >= 0 {
				return url
			}
			parens++
		case ']':
			if brackets >= 0 {
				return url
			}
			brackets++
		default:
			return url
		}
		url = url[:len(url)-1]
	}
	return url
}

// linkify splits a run into text and link nodes. Text around links is kept in
// as few nodes as possible.
func linkify(run Run) []Node {
	matches := findLinks(run.Text)
	if len(matches) == 0 {
		return []Node{{Kind: NodeText, Text: run.Text, Style: run.Style}}
	}
	nodes := make([]Node, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m.start > last {
			nodes = append(nodes, Node{Kind: NodeText, Text: run.Text[last:m.start], Style: run.Style})
		}
		nodes = append(nodes, Node{Kind: NodeLink, Text: run.Text[m.start:m.end], URL: m.url, Style: run.Style})
		last = m.end
	}
	if last < len(run.Text) {
		nodes = append(nodes, Node{Kind: NodeText, Text: run.Text[last:], Style: run.Style})
	}
	return nodes
}
