package tool

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
)

// mockTool is a minimal GenericTool.
type mockTool struct {
	name   string
	result string
}

func (m *mockTool) ToolInfo() Info {
	return Info{Name: m.name, Description: "Mock tool for testing"}
}

func (m *mockTool) Call(ctx context.Context, inputJson string) (string, error) {
	return m.result, nil
}

func TestNewCatalog(t *testing.T) {
	catalog := NewCatalog()
	if catalog.Size() != 0 {
		t.Errorf("New catalog should be empty, got size %d", catalog.Size())
	}

	catalog = NewCatalog(&mockTool{name: "tool1"}, &mockTool{name: "tool2"})
	if catalog.Size() != 2 {
		t.Errorf("Expected catalog size 2, got %d", catalog.Size())
	}
}

func TestCatalog_GetCaseInsensitive(t *testing.T) {
	crawl := &mockTool{name: "Web_Crawl", result: "ok"}
	catalog := NewCatalog(crawl)

	for _, name := range []string{"web_crawl", "WEB_CRAWL", "Web_Crawl"} {
		got, ok := catalog.Get(name)
		if !ok || got != crawl {
			t.Errorf("Get(%q) = %v, %v", name, got, ok)
		}
		if !catalog.Has(name) {
			t.Errorf("Has(%q) = false", name)
		}
	}

	if _, ok := catalog.Get("missing"); ok {
		t.Error("Get should not find an unregistered tool")
	}
}

func TestCatalog_Remove(t *testing.T) {
	catalog := NewCatalog(&mockTool{name: "tool1"})

	if !catalog.Remove("TOOL1") {
		t.Error("Remove should report the tool was present")
	}
	if catalog.Remove("tool1") {
		t.Error("Second Remove should report false")
	}
	if catalog.Size() != 0 {
		t.Errorf("Expected empty catalog, got %d", catalog.Size())
	}
}

func TestCatalog_ToolsIsCopy(t *testing.T) {
	catalog := NewCatalog(&mockTool{name: "tool1"})

	tools := catalog.Tools()
	delete(tools, "tool1")

	if !catalog.Has("tool1") {
		t.Error("Modifying the returned map must not affect the catalog")
	}
}

func TestCatalog_Names(t *testing.T) {
	catalog := NewCatalog(&mockTool{name: "zeta"}, &mockTool{name: "Alpha"}, &mockTool{name: "mid"})

	want := []string{"alpha", "mid", "zeta"}
	if got := catalog.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCatalog_AddToolsReplacesExisting(t *testing.T) {
	v1 := &mockTool{name: "tool1", result: "v1"}
	v2 := &mockTool{name: "TOOL1", result: "v2"}
	catalog := NewCatalog(v1)

	catalog.AddTools(v2)

	got, _ := catalog.Get("tool1")
	if got != v2 {
		t.Error("AddTools should replace existing tool")
	}
	if catalog.Size() != 1 {
		t.Errorf("Should still have 1 tool after replacement, got %d", catalog.Size())
	}
}

func TestCatalog_ThreadSafety(t *testing.T) {
	catalog := NewCatalog()
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(2)
		name := fmt.Sprintf("tool%d", i%26)
		go func() {
			defer wg.Done()
			catalog.AddTools(&mockTool{name: name})
		}()
		go func() {
			defer wg.Done()
			catalog.Get(name)
			catalog.Names()
			catalog.Tools()
		}()
	}
	wg.Wait()

	if catalog.Size() != 26 {
		t.Errorf("Expected 26 distinct tools, got %d", catalog.Size())
	}
}
