package cli

import (
	"strings"
	"testing"

	"github.com/khanape/khana-cli/internal/cart"
)

func TestCartShowEmpty(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "cart", "show")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Your cart is empty.") {
		t.Fatalf("expected empty-cart message:\n%s", stdout)
	}
}

func TestCartAddPersistsLine(t *testing.T) {
	deps, _, carts := testDependencies()

	code, stdout, _ := runCLI(t, deps, "cart", "add", "s1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Butter Chicken") {
		t.Fatalf("expected the added item in the cart table:\n%s", stdout)
	}
	if len(carts.lines) != 1 || carts.lines[0].ItemID != "s1" || carts.lines[0].Quantity != 1 {
		t.Fatalf("unexpected persisted lines: %+v", carts.lines)
	}
}

func TestCartAddUnknownItem(t *testing.T) {
	deps, _, carts := testDependencies()

	code, stdout, _ := runCLI(t, deps, "cart", "add", "zz9")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "zz9") {
		t.Fatalf("expected the unknown id echoed back:\n%s", stdout)
	}
	if len(carts.lines) != 0 {
		t.Fatalf("cart should stay untouched, got %+v", carts.lines)
	}
}

func TestCartAddAccumulatesQuantity(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{{ItemID: "b1", Name: "Classic Burger", Price: 199, Quantity: 1}}

	code, _, _ := runCLI(t, deps, "cart", "add", "b1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(carts.lines) != 1 || carts.lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 on one line, got %+v", carts.lines)
	}
}

func TestCartUpdateDelta(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{{ItemID: "b1", Name: "Classic Burger", Price: 199, Quantity: 2}}

	code, _, _ := runCLI(t, deps, "cart", "update", "b1", "--delta", "-1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(carts.lines) != 1 || carts.lines[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v", carts.lines)
	}
}

func TestCartUpdateDropsLineAtZero(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{{ItemID: "b1", Name: "Classic Burger", Price: 199, Quantity: 1}}

	code, _, _ := runCLI(t, deps, "cart", "update", "b1", "--delta", "-1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(carts.lines) != 0 {
		t.Fatalf("expected the line removed, got %+v", carts.lines)
	}
}

func TestCartUpdateMissingLine(t *testing.T) {
	deps, _, _ := testDependencies()

	code, stdout, _ := runCLI(t, deps, "cart", "update", "p2", "--delta", "1")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "not in the cart") {
		t.Fatalf("expected missing-line message:\n%s", stdout)
	}
}

func TestCartRemove(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{
		{ItemID: "b1", Name: "Classic Burger", Price: 199, Quantity: 3},
		{ItemID: "d4", Name: "Mango Lassi", Price: 90, Quantity: 1},
	}

	code, _, _ := runCLI(t, deps, "cart", "remove", "b1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(carts.lines) != 1 || carts.lines[0].ItemID != "d4" {
		t.Fatalf("expected only the lassi left, got %+v", carts.lines)
	}
}

func TestCartClear(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{{ItemID: "b1", Name: "Classic Burger", Price: 199, Quantity: 1}}

	code, stdout, _ := runCLI(t, deps, "cart", "clear")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Cart cleared.") {
		t.Fatalf("expected confirmation:\n%s", stdout)
	}
	if len(carts.lines) != 0 {
		t.Fatalf("expected no lines left, got %+v", carts.lines)
	}
}

func TestCartShowBill(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{
		{ItemID: "p1", Name: "Margherita Pizza", Price: 299, Quantity: 1},
		{ItemID: "d4", Name: "Mango Lassi", Price: 90, Quantity: 2},
	}

	code, stdout, _ := runCLI(t, deps, "cart", "show")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	// 479 item total, flat 40 delivery, 24 tax, 543 to pay.
	for _, fragment := range []string{"₹479", "₹40", "₹24", "₹543"} {
		if !strings.Contains(stdout, fragment) {
			t.Fatalf("expected %q in the bill:\n%s", fragment, stdout)
		}
	}
}

func TestCartShowSuggestions(t *testing.T) {
	deps, _, carts := testDependencies()
	carts.lines = []cart.Line{{ItemID: "s1", Name: "Butter Chicken", Price: 320, Quantity: 1}}

	code, stdout, _ := runCLI(t, deps, "cart", "show", "--suggest")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Frequently ordered") {
		t.Fatalf("expected the suggestions table:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Chocolate Brownie") {
		t.Fatalf("expected a suggested item:\n%s", stdout)
	}
}
