package main

import (
	"bufio"
	"io"
	"strconv"

	"github.com/TrevorS/xmeans"
)

// writeCentroids prints one centroid per line, coordinates rounded to whole
// numbers and joined by commas.
func writeCentroids(w io.Writer, s *xmeans.State) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < s.K; i++ {
		for j, v := range s.Centroid(i) {
			if j > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(strconv.FormatFloat(v, 'f', 0, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
