package board

import "testing"

func mirrorBB(bb Bitboard) Bitboard {
	var out Bitboard
	bb.ForEach(func(sq Square) { out |= SquareBB(sq.Mirror()) })
	return out
}

func flipBB(bb Bitboard) Bitboard {
	var out Bitboard
	bb.ForEach(func(sq Square) { out |= SquareBB(sq.Flip()) })
	return out
}

func TestLeapsMirrorSymmetry(t *testing.T) {
	InitTables()

	tables := []struct {
		name  string
		leaps func(Square) Bitboard
	}{
		{"elephant", LeapsAsElephant},
		{"zebra", LeapsAsZebra},
		{"crocodile", LeapsAsCrocodile},
		{"giraffe", LeapsAsCapturingGiraffe},
		{"king", LeapsAsKing},
	}

	for _, tc := range tables {
		t.Run(tc.name, func(t *testing.T) {
			for sq := A7; sq < NoSquare; sq++ {
				want := mirrorBB(tc.leaps(sq))
				if got := tc.leaps(sq.Mirror()); got != want {
					t.Errorf("%s: leaps from %s not mirrored at %s", tc.name, sq, sq.Mirror())
				}
			}
		})
	}
}

func TestLeapsColorSymmetry(t *testing.T) {
	InitTables()

	tables := []struct {
		name  string
		leaps func(Square, Color) Bitboard
	}{
		{"pawn", LeapsAsPawn},
		{"superpawn", LeapsAsSuperpawn},
		{"lion", LeapsAsLion},
	}

	for _, tc := range tables {
		t.Run(tc.name, func(t *testing.T) {
			for sq := A7; sq < NoSquare; sq++ {
				want := flipBB(tc.leaps(sq, White))
				if got := tc.leaps(sq.Flip(), Black); got != want {
					t.Errorf("%s: white leaps from %s do not flip onto black leaps from %s",
						tc.name, sq, sq.Flip())
				}
			}
		})
	}

	if flipBB(Castle(White)) != Castle(Black) {
		t.Error("castles are not mirror images")
	}
}

func TestLeapCounts(t *testing.T) {
	InitTables()

	tests := []struct {
		name string
		got  Bitboard
		want int
	}{
		{"king in corner", LeapsAsKing(A7), 3},
		{"king in centre", LeapsAsKing(D4), 8},
		{"zebra in corner", LeapsAsZebra(G1), 2},
		{"zebra in centre", LeapsAsZebra(D4), 8},
		{"elephant in centre", LeapsAsElephant(D4), 8},
		{"elephant in corner", LeapsAsElephant(A1), 4},
		{"giraffe capture in centre", LeapsAsCapturingGiraffe(D4), 4},
		{"crocodile in river", LeapsAsCrocodile(D4), 6},
		{"crocodile on land", LeapsAsCrocodile(D1), 4},
		{"lion in castle centre", LeapsAsLion(D2, White), 8},
		{"lion on castle edge", LeapsAsLion(D1, White), 5},
		{"pawn on edge", LeapsAsPawn(A2, White), 2},
		{"superpawn in centre", LeapsAsSuperpawn(D4, Black), 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if n := tc.got.PopCount(); n != tc.want {
				t.Errorf("got %d squares (%s), want %d", n, tc.got.Squares(), tc.want)
			}
		})
	}
}
