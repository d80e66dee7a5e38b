package globe

import (
	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

// worldMask is a coarse equirectangular land mask: 72 columns of 5° longitude
// (west to east from -180) by 24 rows of 7.5° latitude (north to south from
// +90). '#' is land. Each row is written in 12-column (60°) chunks to keep it
// maintainable. Coarse on purpose; it only has to make the rendered globe
// recognizable, the projection math does not depend on it.
var worldMask = []string{
	"............" + "............" + "............" + "............" + "............" + "............",
	"............" + "..########.." + "#######....." + "............" + "............" + "............",
	"............" + ".##########." + ".#######...." + ".######.####" + "############" + "###########.",
	"...######..." + "###########." + "..######.#.." + ".###########" + "############" + "##########..",
	"...####...##" + "############" + "#..........#" + "############" + "############" + "########....",
	"...........#" + "############" + ".#.........#" + "############" + "############" + "....##......",
	"............" + "############" + "..........##" + "############" + "############" + "...##.......",
	"............" + "##########.." + "..........##" + "############" + "############" + "..##........",
	"............" + ".#####..##.." + ".........###" + "############" + "############" + "##..........",
	"............" + "...####.#..." + ".........###" + "############" + "#.#####.####" + "##..........",
	"............" + ".....###...." + ".........###" + "##########.." + "...##..####." + "##..........",
	"............" + "........####" + "###........." + ".#########.." + ".......#####" + "#######.....",
	"............" + "........####" + "######......" + "..#######..." + ".........###" + "..#####.....",
	"............" + "........####" + "######......" + "..#######..." + "............" + ".#####......",
	"............" + "..........##" + "#####......." + "..######.##." + "...........#" + "#######.....",
	"............" + "..........##" + "###........." + "...####..#.." + "...........#" + "########....",
	"............" + "..........##" + "##.........." + "...###......" + "...........#" + "..#####.....",
	"............" + ".........###" + "............" + "............" + "............" + ".....#....##",
	"............" + ".........##." + "............" + "............" + "............" + ".........#..",
	"............" + "..........#." + "............" + "............" + "............" + "............",
	"............" + "............" + "............" + "............" + "............" + "............",
	"....####...." + "..######...." + "...#####...." + "..#######..." + "...######..." + "....####....",
	"############" + "############" + "############" + "############" + "############" + "############",
	"############" + "############" + "############" + "############" + "############" + "############",
}

// IsLand reports whether the given coordinate falls on a land cell of the
// world mask.
func IsLand(c geo.Coordinate) bool {
	rows := len(worldMask)
	cols := len(worldMask[0])

	row := int((90 - c.Lat) / 180 * float64(rows))
	if row < 0 {
		row = 0
	}
	if row >= rows {
		row = rows - 1
	}

	col := int((geo.NormalizeLon(c.Lon) + 180) / 360 * float64(cols))
	if col < 0 {
		col = 0
	}
	if col >= cols {
		col = cols - 1
	}

	return worldMask[row][col] == '#'
}
