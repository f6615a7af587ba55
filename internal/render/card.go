package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"

	_ "image/jpeg"

	"vouchbot/internal/common"
	"vouchbot/internal/ledger"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/basicfont"
)

// Card geometry, following the receipt layout of the original bot
const (
	cardWidth    = 500
	cardHeight   = 220
	headerHeight = 40
	avatarSize   = 64
	avatarX      = 15
	avatarY      = 60
	textX        = 100

	// Delay between frames of the aggregate gif, in 100ths of a second
	frameDelay = 150
)

var (
	background = color.RGBA{40, 42, 54, 255}
	headerFill = color.RGBA{95, 158, 160, 255}
	gold       = color.RGBA{255, 215, 0, 255}
	lightBlue  = color.RGBA{173, 216, 230, 255}
	lightGreen = color.RGBA{144, 238, 144, 255}
)

// Renderer turns ledger records into encoded images ready to be
// attached to a discord message. Avatar thumbnails are fetched
// through the rate limited proxy; a failed fetch degrades to a
// placeholder instead of failing the card
type Renderer struct {
	proxy *common.Proxy
}

func NewRenderer(proxy *common.Proxy) Renderer {
	return Renderer{proxy}
}

// Card renders a single vouch receipt as a png
func (renderer *Renderer) Card(record ledger.Record) ([]byte, error) {

	frame := renderer.frame(record)
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("could not encode vouch card: %w", err)
	}
	return buf.Bytes(), nil
}

// Cards renders a set of records as a looping animated gif,
// one frame per record
func (renderer *Renderer) Cards(records []ledger.Record) ([]byte, error) {

	if len(records) == 0 {
		return nil, fmt.Errorf("no records to render")
	}

	anim := gif.GIF{LoopCount: 0}
	for _, record := range records {
		frame := renderer.frame(record)
		paletted := image.NewPaletted(frame.Bounds(), framePalette())
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, frameDelay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, &anim); err != nil {
		return nil, fmt.Errorf("could not encode vouch gif: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw one receipt card
func (renderer *Renderer) frame(record ledger.Record) image.Image {

	dc := gg.NewContext(cardWidth, cardHeight)
	dc.SetFontFace(basicfont.Face7x13)

	// Background and header bar
	dc.SetColor(background)
	dc.Clear()
	dc.SetColor(headerFill)
	dc.DrawRectangle(0, 0, cardWidth, headerHeight)
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawString("VOUCH RECEIPT", avatarX, 25)

	dc.DrawImage(renderer.avatar(record.AvatarURL), avatarX, avatarY)

	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("By: %s", record.By), textX, 72)
	dc.SetColor(gold)
	dc.DrawString(fmt.Sprintf("Rating: %s", record.Rating), textX, 105)
	dc.SetColor(lightBlue)
	dc.DrawString(fmt.Sprintf("Item: %s", record.Item), textX, 135)
	dc.SetColor(lightGreen)
	dc.DrawString(fmt.Sprintf("Trusted: %s", record.Trusted), textX, 165)

	return dc.Image()
}

// Fetch and scale the avatar thumbnail. Any failure along the way
// falls back to a flat placeholder square
func (renderer *Renderer) avatar(url string) image.Image {

	placeholder := func() image.Image {
		img := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
		draw.Draw(img, img.Bounds(), &image.Uniform{headerFill}, image.Point{}, draw.Src)
		return img
	}

	if url == "" || renderer.proxy == nil {
		return placeholder()
	}

	data, err := renderer.proxy.Request(url, false)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not fetch avatar: %s", err))
		return placeholder()
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not decode avatar from %s: %s", url, err))
		return placeholder()
	}
	return resize.Resize(avatarSize, avatarSize, decoded, resize.Lanczos3)
}

// The card only uses a handful of colors, so a small palette keeps
// the gif frames accurate
func framePalette() color.Palette {
	return color.Palette{
		background, headerFill, gold, lightBlue, lightGreen,
		color.White, color.Black,
		color.RGBA{128, 128, 128, 255},
		color.RGBA{192, 192, 192, 255},
		color.RGBA{64, 64, 64, 255},
	}
}
