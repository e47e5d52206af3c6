package workload

import "testing"

func TestMakeList(t *testing.T) {
	xs := MakeList(5)

	want := []int{1, 2, 3, 4, 5}
	if len(xs) != len(want) {
		t.Fatalf("len = %d, want %d", len(xs), len(want))
	}

	for i := range want {
		if xs[i] != want[i] {
			t.Errorf("xs[%d] = %d, want %d", i, xs[i], want[i])
		}
	}
}

func TestReductionsAgree(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"empty", 0, 0},
		{"one", 1, 1},
		{"small", 10, 55},
		{"larger", 1000, 500500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs := MakeList(tt.n)

			if got := SumLoop(xs); got != tt.want {
				t.Errorf("SumLoop = %d, want %d", got, tt.want)
			}
			if got := Fold(xs, 0, Add); got != tt.want {
				t.Errorf("Fold = %d, want %d", got, tt.want)
			}
			if got := FoldCurried(xs, 0, AddCurried); got != tt.want {
				t.Errorf("FoldCurried = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFoldArbitraryFunction(t *testing.T) {
	xs := MakeList(4)

	got := Fold(xs, 1, func(acc, x int) int { return acc * x })
	if got != 24 {
		t.Errorf("product fold = %d, want 24", got)
	}
}
