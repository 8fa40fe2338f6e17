package main

import "time"

// Rendering and simulation constants used throughout the application. These
// values define the frame size, the camera, the lighting model and how the
// player moves through the map.
const (
	screenWidth          = 800
	screenHeight         = 600
	defaultWindowScale   = 1
	defaultWorkerCount   = 4
	defaultTPS           = 60.0
	defaultFOVDegrees    = 100.0
	worldScale           = 10.0
	rayDetail            = 10.0
	farDepth             = 1000000.0
	cornerNudge          = 0.0001
	maxCornerRetries     = 8
	cornerTolerance      = 1e-9
	minFogDistance       = 2.0
	maxFogDistance       = 20.0
	maxFogAmount         = 0.8
	maxWallHeight        = 4 * screenHeight
	playerSpeed          = 70.0
	mouseSensitivity     = 20.0
	arrowTurnSpeed       = 3.5
	defaultHeadlessRun   = 600
	autoWalkMinFrames    = 20
	autoWalkFrameSpread  = 50
	terminalKeyHold      = 150 * time.Millisecond
	terminalFrameDelay   = 15 * time.Millisecond
	terminalMouseScale   = 8.0
	pgoRecordDuration    = 15 * time.Second
	minimapCellPixels    = 4
	minimapMargin        = 8
	hudFontSize          = 14
	debugOverlayInterval = 250 * time.Millisecond
)

// Palette, packed as 0xRRGGBB.
const (
	skyColor        packedColor = 0x87CEEB
	fogColor        packedColor = 0x87CEEB
	lightColor      packedColor = 0xFFFFFF
	floorColor      packedColor = 0x202020
	escapedRayColor packedColor = 0x000000
	redWallColor    packedColor = 0xFF2222
	greenWallColor  packedColor = 0x22FF22
	blueWallColor   packedColor = 0x2222FF
	solidWallColor  packedColor = 0x222222
)

// defaultMap is the arena the game starts in. ' ' is open floor, 'P' marks the
// spawn cell and every other symbol is a wall.
var defaultMap = []string{
	"rrrrrrrrrrrrrrrrrrrrrrrrrrrrrr",
	"b                 g          g",
	"b                 g          g",
	"b   P             g          g",
	"b                 g          g",
	"b                 g          g",
	"b                 g          g",
	"b     ggggggggggggg     #####g",
	"b                 g          g",
	"b  r              g          g",
	"b                 g          g",
	"b                            g",
	"b                            g",
	"b    gb           rrrrr    bbg",
	"b                 r          g",
	"b                 r          g",
	"b                 r          g",
	"b                 r          g",
	"b###################  ########",
}
