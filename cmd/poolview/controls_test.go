package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// TestHelpToggle tests toggling the help overlay with '?'
func TestHelpToggle(t *testing.T) {
	helper, err := NewTestHelper(1024)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	helper.SendWindowSize(120, 40)

	model := helper.GetModel()
	if model.showHelp {
		t.Fatal("Help should not be shown initially")
	}

	t.Log("Pressing '?' to show help")
	helper.SendKeyRune('?')

	model = helper.GetModel()
	if !model.showHelp {
		t.Error("Help should be shown after pressing '?'")
	}

	t.Log("Pressing '?' again to hide help")
	helper.SendKeyRune('?')

	model = helper.GetModel()
	if model.showHelp {
		t.Error("Help should be hidden after pressing '?' again")
	}

	t.Log("✓ Help toggle works correctly")
}

// TestHelpBlocksOtherKeys tests that the help overlay blocks pool actions
func TestHelpBlocksOtherKeys(t *testing.T) {
	helper, err := NewTestHelper(1024)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	helper.SendWindowSize(120, 40)

	t.Log("Showing help")
	helper.SendKeyRune('?')

	t.Log("Trying to allocate while help is shown (should be blocked)")
	helper.SendKeyRune('a')

	if helper.GetAllocCount() != 0 {
		t.Errorf("Allocation should be blocked while help is shown, got %d", helper.GetAllocCount())
	}

	t.Log("Pressing Esc to dismiss help")
	helper.SendKey(tea.KeyEsc)

	t.Log("Now allocation should work")
	helper.SendKeyRune('a')

	if helper.GetAllocCount() != 1 {
		t.Errorf("Expected 1 allocation after dismissing help, got %d", helper.GetAllocCount())
	}

	t.Log("✓ Help overlay blocks pool actions")
}

// TestAllocKey tests that 'a' performs an allocation and selects it
func TestAllocKey(t *testing.T) {
	helper, err := NewTestHelper(1024)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	helper.SendKeyRune('a')

	if helper.GetAllocCount() != 1 {
		t.Fatalf("Expected 1 allocation, got %d", helper.GetAllocCount())
	}

	model := helper.GetModel()
	a := model.allocs[0]
	if a.size != allocSizes[0] {
		t.Errorf("First allocation should use size %d, got %d", allocSizes[0], a.size)
	}
	if uint64(a.ref) != 16 {
		t.Errorf("First allocation should land at ref 0x10, got 0x%x", uint64(a.ref))
	}
	if helper.GetCursor() != 0 {
		t.Errorf("Cursor should select the new allocation, got %d", helper.GetCursor())
	}

	s := model.pool.Stats()
	if s.LiveAllocs != 1 {
		t.Errorf("Expected 1 live allocation, got %d", s.LiveAllocs)
	}

	t.Log("✓ Alloc key allocates and selects")
}

// TestFreeKey tests that 'f' releases the selected allocation
func TestFreeKey(t *testing.T) {
	helper, err := NewTestHelper(1024)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	helper.SendKeyRune('a')
	helper.SendKeyRune('f')

	if helper.GetAllocCount() != 0 {
		t.Fatalf("Expected 0 allocations after release, got %d", helper.GetAllocCount())
	}

	model := helper.GetModel()
	s := model.pool.Stats()
	if s.LiveAllocs != 0 {
		t.Errorf("Expected 0 live allocations, got %d", s.LiveAllocs)
	}
	if s.FreeBlocks != s.Blocks {
		t.Errorf("All blocks should be free again, got %d of %d", s.FreeBlocks, s.Blocks)
	}

	t.Log("✓ Free key releases the selection")
}

// TestCursorNavigation tests moving the selection with k/j/g/G
func TestCursorNavigation(t *testing.T) {
	helper, err := NewTestHelper(4096)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	helper.SendKeyRune('a')
	helper.SendKeyRune('a')
	helper.SendKeyRune('a')

	if helper.GetCursor() != 2 {
		t.Fatalf("Cursor should start on the newest allocation, got %d", helper.GetCursor())
	}

	helper.SendKeyRune('k')
	if helper.GetCursor() != 1 {
		t.Errorf("Expected cursor 1 after k, got %d", helper.GetCursor())
	}

	helper.SendKey(tea.KeyUp)
	if helper.GetCursor() != 0 {
		t.Errorf("Expected cursor 0 after up, got %d", helper.GetCursor())
	}

	helper.SendKey(tea.KeyUp)
	if helper.GetCursor() != 0 {
		t.Errorf("Cursor should clamp at 0, got %d", helper.GetCursor())
	}

	helper.SendKeyRune('G')
	if helper.GetCursor() != 2 {
		t.Errorf("Expected cursor 2 after G, got %d", helper.GetCursor())
	}

	helper.SendKeyRune('g')
	if helper.GetCursor() != 0 {
		t.Errorf("Expected cursor 0 after g, got %d", helper.GetCursor())
	}

	t.Log("✓ Cursor navigation works")
}

// TestTrampleReleaseRecover walks the corruption flow through key presses
func TestTrampleReleaseRecover(t *testing.T) {
	helper, err := NewTestHelper(1024)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	t.Log("Allocating and trampling the footer")
	helper.SendKeyRune('a')
	helper.SendKeyRune('x')

	t.Log("Releasing the trampled allocation")
	helper.SendKeyRune('f')

	model := helper.GetModel()
	if !model.pool.Poisoned() {
		t.Fatal("Pool should be poisoned after releasing a trampled allocation")
	}
	if helper.GetAllocCount() != 0 {
		t.Errorf("Trampled allocation should leave the list, got %d entries", helper.GetAllocCount())
	}

	s := model.pool.Stats()
	if s.PoisonEvents != 1 {
		t.Errorf("Expected 1 poison event, got %d", s.PoisonEvents)
	}
	if s.LeakedBlocks != 3 {
		t.Errorf("A 16 byte allocation should leak 3 blocks, got %d", s.LeakedBlocks)
	}

	t.Log("Allocating while poisoned (should fail)")
	helper.SendKeyRune('a')
	if helper.GetAllocCount() != 0 {
		t.Error("Allocation should fail while poisoned")
	}

	t.Log("Clearing poison")
	helper.SendKeyRune('p')

	model = helper.GetModel()
	if model.pool.Poisoned() {
		t.Fatal("Poison should be cleared")
	}

	t.Log("Allocating again")
	helper.SendKeyRune('a')
	if helper.GetAllocCount() != 1 {
		t.Errorf("Allocation should work after clearing poison, got %d", helper.GetAllocCount())
	}

	t.Log("✓ Corruption flow works end to end")
}

// TestWindowSize tests that resize messages update the model dimensions
func TestWindowSize(t *testing.T) {
	helper, err := NewTestHelper(1024)
	if err != nil {
		t.Fatalf("failed to create helper: %v", err)
	}
	defer helper.Close()

	helper.SendWindowSize(100, 30)

	model := helper.GetModel()
	if model.width != 100 || model.height != 30 {
		t.Errorf("Expected 100x30, got %dx%d", model.width, model.height)
	}

	t.Log("✓ Window size updates propagate")
}
