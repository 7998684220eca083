// Package demo holds the built-in tool call payloads shown by the demo command.
// They mimic what LLMs actually emit: padded strings, numbers as text, wrong types and
// stray keys.
package demo

var cases = []string{
	`{"action": "search", "q": "  capital of Japan  ", "k": "5", "model": "gpt-4"}`,
	`{"action": "answer", "q": "ignore this", "k": 2}`,
	`{"action": "search", "q": "", "k": 3}`,
	`{"action": "search"}`,
	`{"action": "blah"}`,
	`{"action": "search", "q": 12345, "k": "three"}`,
	`{"action": "answer", "k": "10"}`,
	`{"action": "search", "q": "hello", "k": 999}`,
	`{"action": "search", "q": "   ", "k": null}`,
	`{"action": "answer"}`,
	`{"action": "search", "q": "test", "k": true}`,
	`{"action": "search", "q": "test", "k": 3.14}`,
	`{"action": "search", "q": "test", "extra": [1, 2, 3]}`,
	`{"action": "answer", "q": "should be ignored"}`,
	`{"k": 4}`,
	`{"action": "search", "q": "\t\nvalid query\t"}`,
	`{"action": "search", "q": "valid", "k": "2"}`,
	`{"action": "search", "q": "valid", "k": 0}`,
	`{"action": "search", "q": "valid", "k": 6}`,
	`{}`,
}

// Cases returns the demo payloads as raw JSON, in display order.
func Cases() [][]byte {
	out := make([][]byte, len(cases))
	for i, c := range cases {
		out[i] = []byte(c)
	}
	return out
}
