package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ross-protocol/ross-go/pkg/rulefile"
)

// RunRules prints the stored event processors as a rule file.
func RunRules(ctx context.Context, s *Session, w io.Writer) error {
	list, err := s.Store.ReadEventProcessors(ctx)
	if err != nil {
		return err
	}

	data, err := rulefile.Marshal(list)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// RunLoadRules stores the event processors of a rule file.
func RunLoadRules(ctx context.Context, s *Session, path string, w io.Writer) error {
	list, err := rulefile.Load(path)
	if err != nil {
		return err
	}
	if err := s.Store.WriteEventProcessors(ctx, list); err != nil {
		return err
	}
	fmt.Fprintf(w, "Stored %d event processor(s)\n", len(list))
	return nil
}
