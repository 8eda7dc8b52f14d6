package board

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	squareSize   = 64
	boardSquares = 8
	boardSize    = squareSize * boardSquares
	margin       = 24
)

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	highlightFill   = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	backgroundColor = color.RGBA{28, 31, 46, 255}
	coordinateColor = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
)

type Highlight struct {
	From nchess.Square
	To   nchess.Square
}

type Options struct {
	Flipped   bool
	Highlight *Highlight
}

// Renderer rasterizes a chess board to PNG. Piece glyphs come from
// embedded SVG assets; coordinates use a fixed bitmap face.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) RenderPNG(ctx context.Context, b *nchess.Board, opts Options) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	totalWidth := boardSize + margin*2
	totalHeight := boardSize + margin*2
	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	origin := image.Point{X: margin, Y: margin}
	drawSquares(img, origin, opts.Flipped)
	if opts.Highlight != nil {
		drawSquareOverlay(img, opts.Highlight.From, origin, opts.Flipped, highlightFill)
		drawSquareOverlay(img, opts.Highlight.To, origin, opts.Flipped, highlightFill)
	}
	if err := drawPieces(img, b, origin, opts.Flipped); err != nil {
		return nil, err
	}
	drawCoordinates(img, origin, opts.Flipped)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func boardOrder(flipped bool) ([]nchess.Rank, []nchess.File) {
	ranks := []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
	files := []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
	if flipped {
		reverse(ranks)
		reverse(files)
	}
	return ranks, files
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func drawSquares(dst *image.RGBA, origin image.Point, flipped bool) {
	ranks, files := boardOrder(flipped)
	for row, rank := range ranks {
		for col, file := range files {
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			sq := nchess.NewSquare(file, rank)
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
		}
	}
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}

func drawPieces(dst *image.RGBA, b *nchess.Board, origin image.Point, flipped bool) error {
	boardMap := b.SquareMap()
	ranks, files := boardOrder(flipped)
	for row, rank := range ranks {
		for col, file := range files {
			sq := nchess.NewSquare(file, rank)
			piece := boardMap[sq]
			if piece == nchess.NoPiece {
				continue
			}
			glyph, err := renderPieceImage(piece, squareSize)
			if err != nil {
				return err
			}
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), glyph, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawSquareOverlay(img *image.RGBA, sq nchess.Square, origin image.Point, flipped bool, clr color.Color) {
	col := int(sq.File())
	row := 7 - int(sq.Rank())
	if flipped {
		col = 7 - col
		row = 7 - row
	}
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	imagedraw.Draw(img, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawCoordinates(img *image.RGBA, origin image.Point, flipped bool) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordinateColor),
		Face: face,
	}

	ranks, files := boardOrder(flipped)
	for col, file := range files {
		label := file.String()
		x := origin.X + col*squareSize + squareSize/2 - 3
		y := origin.Y + boardSize + 16
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(label)
	}
	for row, rank := range ranks {
		label := rank.String()
		x := origin.X - 14
		y := origin.Y + row*squareSize + squareSize/2 + 4
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(label)
	}
}
