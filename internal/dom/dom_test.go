package dom

import (
	"errors"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<div id="app" class="shell main">
  <form id="signup"><label for="email">Email</label><input id="email" name="email"><button id="go" class="btn primary">Go</button></form>
  <table id="grid"><tr><td><span class="cell">A</span></td><td><span class="cell" id="b">B</span></td></tr></table>
</div>
</body></html>`

func mustParse(t *testing.T, page string) *Document {
	t.Helper()
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestParseBody(t *testing.T) {
	doc := mustParse(t, testPage)

	body := doc.Body()
	if body == nil {
		t.Fatal("expected body")
	}
	if got := body.Tag(); got != "BODY" {
		t.Errorf("Tag() = %q, want BODY", got)
	}
	if !body.IsBody() {
		t.Error("expected IsBody() to be true")
	}
	if got := body.Parent().Tag(); got != "HTML" {
		t.Errorf("body parent = %q, want HTML", got)
	}
	if doc.Root().Parent() != nil {
		t.Error("expected HTML element to have no parent element")
	}
}

func TestParseFragmentWithoutBodyMarkup(t *testing.T) {
	doc := mustParse(t, `<button id="x">x</button>`)

	el, err := doc.Query("#x")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !el.Parent().IsBody() {
		t.Errorf("expected parser to place button in body, parent = %s", el.Parent().Tag())
	}
}

func TestOuterHTML(t *testing.T) {
	doc := mustParse(t, testPage)

	el, err := doc.Query("#go")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := `<button id="go" class="btn primary">Go</button>`
	if got := el.OuterHTML(); got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}

	form, _ := doc.Query("form")
	if !strings.Contains(form.OuterHTML(), want) {
		t.Error("expected form markup to include its descendants")
	}
}

func TestQuery(t *testing.T) {
	doc := mustParse(t, testPage)

	tests := []struct {
		selector string
		wantTag  string
		wantID   string
	}{
		{"#app", "DIV", "app"},
		{"button", "BUTTON", "go"},
		{"button#go", "BUTTON", "go"},
		{".primary", "BUTTON", "go"},
		{"button.btn.primary", "BUTTON", "go"},
		{"div.shell", "DIV", "app"},
		{"table span", "SPAN", ""},
		{"td span#b", "SPAN", "b"},
		{"#grid tr td .cell", "SPAN", ""},
		{"form input", "INPUT", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			el, err := doc.Query(tt.selector)
			if err != nil {
				t.Fatalf("Query(%q): %v", tt.selector, err)
			}
			if el.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", el.Tag(), tt.wantTag)
			}
			id, _ := el.Attr("id")
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestQueryErrors(t *testing.T) {
	doc := mustParse(t, testPage)

	if _, err := doc.Query("#missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := doc.Query("form table"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unmatched chain, got %v", err)
	}
	if _, err := doc.Query("   "); err == nil {
		t.Error("expected error for empty selector")
	}
	if _, err := doc.Query("div#a#b"); err == nil {
		t.Error("expected error for two ids")
	}
	if _, err := doc.Query("div."); err == nil {
		t.Error("expected error for empty class")
	}
}

func TestSameAndContains(t *testing.T) {
	doc := mustParse(t, testPage)

	a, _ := doc.Query("#b")
	b, _ := doc.Query("td span#b")
	if !Same(a, b) {
		t.Error("expected two lookups of the same node to be Same")
	}

	table, _ := doc.Query("#grid")
	form, _ := doc.Query("#signup")
	if !Contains(table, a) {
		t.Error("expected table to contain span")
	}
	if Contains(form, a) {
		t.Error("expected form not to contain span")
	}
	if !Contains(a, a) {
		t.Error("expected element to contain itself")
	}
	if !Same(nil, nil) || Same(a, nil) {
		t.Error("unexpected nil handling in Same")
	}
}

func TestDispatchOrderAndKinds(t *testing.T) {
	doc := mustParse(t, testPage)
	target, _ := doc.Query("#go")

	var calls []string
	doc.AddEventListener(EventClick, func(ev Event) { calls = append(calls, "click-1") })
	doc.AddEventListener(EventKeyup, func(ev Event) { calls = append(calls, "keyup") })
	doc.AddEventListener(EventClick, func(ev Event) { calls = append(calls, "click-2") })

	doc.Dispatch(Event{Type: EventClick, Target: target})
	doc.Dispatch(Event{Type: "mousemove", Target: target})

	want := []string{"click-1", "click-2"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestRemoveEventListener(t *testing.T) {
	doc := mustParse(t, testPage)
	target, _ := doc.Query("#go")

	count := 0
	id := doc.AddEventListener(EventClick, func(Event) { count++ })
	if doc.ListenerCount(EventClick) != 1 {
		t.Fatalf("ListenerCount = %d, want 1", doc.ListenerCount(EventClick))
	}

	if !doc.RemoveEventListener(id) {
		t.Error("expected first removal to report true")
	}
	if doc.RemoveEventListener(id) {
		t.Error("expected second removal to report false")
	}

	doc.Dispatch(Event{Type: EventClick, Target: target})
	if count != 0 {
		t.Errorf("removed listener was called %d times", count)
	}
}

func TestListenerRemovingItselfDuringDispatch(t *testing.T) {
	doc := mustParse(t, testPage)
	target, _ := doc.Query("#go")

	var id ListenerID
	first, second := 0, 0
	id = doc.AddEventListener(EventClick, func(Event) {
		first++
		doc.RemoveEventListener(id)
	})
	doc.AddEventListener(EventClick, func(Event) { second++ })

	doc.Dispatch(Event{Type: EventClick, Target: target})
	doc.Dispatch(Event{Type: EventClick, Target: target})

	if first != 1 || second != 2 {
		t.Errorf("first = %d, second = %d, want 1 and 2", first, second)
	}
}
