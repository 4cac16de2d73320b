package http

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/samirrijal/areaselector/internal/core/domain"
	"github.com/samirrijal/areaselector/internal/core/usecases"
	"github.com/samirrijal/areaselector/internal/pkg/input"
)

func TestOverlappingSubjects(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		active  []string
		want    []string
	}{
		{"narrow replaces default", wsChannels["polygons"], []string{wsDefaultSubject}, []string{wsDefaultSubject}},
		{"collection replaces default", wsChannels["collection"], []string{wsDefaultSubject, wsChannels["exports"]}, []string{wsDefaultSubject}},
		{"default replaces narrow", wsDefaultSubject, []string{wsChannels["polygons"], wsChannels["collection"], wsChannels["exports"]}, []string{wsChannels["collection"], wsChannels["polygons"]}},
		{"disjoint channels kept", wsChannels["polygons"], []string{wsChannels["collection"], wsChannels["exports"]}, nil},
		{"exports never overlaps surface", wsChannels["exports"], []string{wsDefaultSubject}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlappingSubjects(tt.subject, tt.active)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

type fakeInputPublisher struct {
	got []*domain.InputEvent
	err error
}

func (f *fakeInputPublisher) PublishInput(ctx context.Context, ev *domain.InputEvent) error {
	f.got = append(f.got, ev)
	return f.err
}

func newTestDispatcher() (*usecases.Editor, *usecases.Dispatcher) {
	editor := usecases.NewEditor(nil, usecases.DefaultEditorConfig)
	tracker := input.NewTracker()
	menus := usecases.NewMenuService(editor, tracker)
	return editor, usecases.NewDispatcher(editor, menus, tracker, input.CollectKey)
}

func TestDispatchInput_QueuesWhenPublisherPresent(t *testing.T) {
	editor, dispatcher := newTestDispatcher()
	pub := &fakeInputPublisher{}
	deps := &Dependencies{Editor: editor, Dispatcher: dispatcher, Input: pub}

	ev := &domain.InputEvent{Kind: domain.KeyDown, Key: input.CollectKey}
	reply, err := dispatchInput(context.Background(), deps, ev)
	if err != nil {
		t.Fatal(err)
	}
	if reply["status"] != "queued" {
		t.Errorf("expected queued reply, got %v", reply)
	}
	if len(pub.got) != 1 || pub.got[0] != ev {
		t.Errorf("expected the event to be published once, got %v", pub.got)
	}
	if editor.Collecting() {
		t.Error("a queued event must not be applied locally")
	}

	pub.err = errors.New("stream unavailable")
	if _, err := dispatchInput(context.Background(), deps, ev); err == nil {
		t.Error("expected publish failure to surface")
	}
}

func TestDispatchInput_LocalWithoutPublisher(t *testing.T) {
	editor, dispatcher := newTestDispatcher()
	deps := &Dependencies{Editor: editor, Dispatcher: dispatcher}

	reply, err := dispatchInput(context.Background(), deps, &domain.InputEvent{Kind: domain.KeyDown, Key: input.CollectKey})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reply["result"]; !ok {
		t.Errorf("expected a dispatch result, got %v", reply)
	}
	if !editor.Collecting() {
		t.Error("expected the collect key to start a collection locally")
	}
}
