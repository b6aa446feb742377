// Package agent implements the interactive budget assistant: a facilitator
// chat that delegates to domain experts, each backed by a Gemini chat
// session and an optional library of callable functions over the book.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// Agent runs the assistant session: one facilitator chat in front, the
// experts behind it.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
}

// New creates an Agent writing to w and reading user input from r, with the
// given experts put at the facilitator's disposal.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start creates the Gemini chat sessions for every expert and the
// facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// next returns the question to send: the queued prompts first, then a line
// read from the user. io.EOF means the session is over.
func (a *Agent) next(queue *[]string) (string, error) {
	for len(*queue) > 0 {
		input := strings.TrimSpace((*queue)[0])
		*queue = (*queue)[1:]
		if input != "" {
			fmt.Fprintln(a.w, input)
			return input, nil
		}
	}
	input, err := a.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Run starts the interactive session. Prompts given as arguments are
// consumed first, then input is read until EOF or "bye".
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to envelope assist. Type 'bye' to exit.")
	queue := prompts
	for {
		fmt.Fprint(a.w, prompt)
		input, err := a.next(&queue)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if input == "" {
			continue
		}
		if input == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, content.Parts[0].Text)
	}
}
