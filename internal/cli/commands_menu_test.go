package cli

import (
	"strings"
	"testing"
)

func TestMenuListShowsEveryRestaurant(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, name := range []string{"The Pizza Place", "Burger Queen", "Wok & Roll", "Spice Kitchen", "Sweet Treats"} {
		if !strings.Contains(stdout, name) {
			t.Fatalf("expected restaurant %q in listing:\n%s", name, stdout)
		}
	}
}

func TestMenuListCategoryFilter(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list", "--category", "paneer")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Paneer Tikka") || !strings.Contains(stdout, "Paneer Butter Masala") {
		t.Fatalf("expected paneer items:\n%s", stdout)
	}
	if strings.Contains(stdout, "Butter Chicken") {
		t.Fatalf("chicken item leaked into paneer listing:\n%s", stdout)
	}
}

func TestMenuListVegetarianAlias(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list", "--category", "vegetarian")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Veg Fried Rice") {
		t.Fatalf("expected vegetarian items:\n%s", stdout)
	}
}

func TestMenuListRejectsUnknownCategory(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list", "--category", "sushi")
	if code != 1 {
		t.Fatalf("expected exit 1 for unknown category, got %d", code)
	}
	if !strings.Contains(stdout, "sushi") {
		t.Fatalf("expected the bad category echoed back:\n%s", stdout)
	}
}

func TestMenuListSearchFilter(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list", "--search", "biryani")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Chicken Biryani") {
		t.Fatalf("expected biryani hit:\n%s", stdout)
	}
	if strings.Contains(stdout, "Margherita Pizza") {
		t.Fatalf("unrelated item leaked into search results:\n%s", stdout)
	}
}

func TestMenuListNoMatches(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list", "--search", "oysters")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "No items match.") {
		t.Fatalf("expected empty-result message:\n%s", stdout)
	}
}

func TestMenuRestaurants(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "restaurants")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Spice Kitchen") || !strings.Contains(stdout, "North Indian") {
		t.Fatalf("expected restaurant details:\n%s", stdout)
	}
}

func TestMenuListJSONEnvelope(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "menu", "list", "--format", "json", "--search", "lassi")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, fragment := range []string{"request_id", "Mango Lassi", "\"user\": \"guest\""} {
		if !strings.Contains(stdout, fragment) {
			t.Fatalf("expected %q in json output:\n%s", fragment, stdout)
		}
	}
}
