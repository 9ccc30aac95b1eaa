package hw

import "testing"

func TestRegisterAndFindBoard(t *testing.T) {
	var got BoardRequest
	RegisterBoard("test-find", func(req BoardRequest) (Board, error) {
		got = req
		return Board{Name: "test-find"}, nil
	})
	f, ok := FindBoard("test-find")
	if !ok {
		t.Fatalf("FindBoard did not see registration")
	}
	b, err := f(BoardRequest{SensePin: 4, BankPins: [3]int{0, 1, 2}})
	if err != nil || b.Name != "test-find" {
		t.Fatalf("factory misbehaved: %+v err=%v", b, err)
	}
	if got.SensePin != 4 || got.BankPins != [3]int{0, 1, 2} {
		t.Fatalf("request not threaded through: %+v", got)
	}

	if _, ok := FindBoard("no-such-board"); ok {
		t.Fatalf("FindBoard returned a factory for an unknown name")
	}
}

func TestRegisterBoardDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate registration did not panic")
		}
	}()
	RegisterBoard("test-dup", func(BoardRequest) (Board, error) { return Board{}, nil })
	RegisterBoard("test-dup", func(BoardRequest) (Board, error) { return Board{}, nil })
}

func TestEdgeToString(t *testing.T) {
	if EdgeToString(EdgeRising) != "rising" || EdgeToString(EdgeNone) != "none" {
		t.Fatalf("EdgeToString mapping wrong")
	}
}
