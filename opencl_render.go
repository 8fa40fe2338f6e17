//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLRenderer renders one column per work item. The map is uploaded once;
// each frame sends only the view and reads back the RGB8 frame and hit cells.
type openCLRenderer struct {
	context  *cl.Context
	queue    *cl.CommandQueue
	program  *cl.Program
	kernel   *cl.Kernel
	mapBuf   *cl.MemObject
	frameBuf *cl.MemObject
	hitBuf   *cl.MemObject

	frame      *frameBuffer
	cam        camera
	hostHits   []int32
	hits       []intPoint
	deviceName string
}

const columnKernelSource = `
#define SIDE_SOUTH 0
#define SIDE_NORTH 1
#define SIDE_EAST 2
#define SIDE_WEST 3

typedef struct {
    int hit;
    int corner;
    int cx, cy;
    int side;
    uchar symbol;
} march_result;

static int solid(uchar s) { return s != ' ' && s != 'P'; }

static int side_crossed(int px, int py, int x, int y) {
    if (x > px) return SIDE_WEST;
    if (x < px) return SIDE_EAST;
    if (y > py) return SIDE_NORTH;
    return SIDE_SOUTH;
}

static float edge_crossing(float origin, float dir, int from, int to, float scale) {
    int edge = to > from ? to : from;
    return ((float)edge * scale - origin) / dir;
}

static march_result march(__global const uchar* cells, int mw, int mh, float scale,
                          float px, float py, float dx, float dy, int pick_vertical)
{
    march_result r = {0, 0, -1, -1, 0, 0};
    int cx = (int)floor(px / scale);
    int cy = (int)floor(py / scale);
    if (cx < 0 || cx >= mw || cy < 0 || cy >= mh) return r;
    float step = scale / RAY_DETAIL;
    float x = px, y = py;
    for (int i = 0; i < MAX_STEPS; i++) {
        x += dx * step;
        y += dy * step;
        int nx = (int)floor(x / scale);
        int ny = (int)floor(y / scale);
        if (nx == cx && ny == cy) continue;
        if (nx != cx && ny != cy) {
            float tx = edge_crossing(px, dx, cx, nx, scale);
            float ty = edge_crossing(py, dy, cy, ny, scale);
            if (fabs(tx - ty) <= CORNER_TOLERANCE && !pick_vertical) {
                r.corner = 1;
                return r;
            }
            int ix = nx, iy = cy;
            if (ty < tx - CORNER_TOLERANCE) { ix = cx; iy = ny; }
            if (ix < 0 || ix >= mw || iy < 0 || iy >= mh) return r;
            uchar s = cells[iy * mw + ix];
            if (solid(s)) {
                r.hit = 1; r.cx = ix; r.cy = iy; r.symbol = s;
                r.side = side_crossed(cx, cy, ix, iy);
                return r;
            }
            cx = ix; cy = iy;
        }
        if (nx < 0 || nx >= mw || ny < 0 || ny >= mh) return r;
        uchar s = cells[ny * mw + nx];
        if (solid(s)) {
            r.hit = 1; r.cx = nx; r.cy = ny; r.symbol = s;
            r.side = side_crossed(cx, cy, nx, ny);
            return r;
        }
        cx = nx; cy = ny;
    }
    return r;
}

static float edge_distance(march_result h, float scale, float px, float py, float dx, float dy) {
    if (dx == 0.0f) {
        float e = (float)h.cy * scale;
        if (dy < 0.0f) e += scale;
        return fabs(e - py);
    }
    if (dy == 0.0f) {
        float e = (float)h.cx * scale;
        if (dx < 0.0f) e += scale;
        return fabs(e - px);
    }
    if (h.side == SIDE_NORTH || h.side == SIDE_SOUTH) {
        float slope = dy / dx;
        float ey = (float)h.cy * scale;
        if (h.side == SIDE_SOUTH) ey += scale;
        float ex = ey / slope + px - py / slope;
        return hypot(px - ex, py - ey);
    }
    float slope = dx / dy;
    float ex = (float)h.cx * scale;
    if (h.side == SIDE_EAST) ex += scale;
    float ey = ex / slope + py - px / slope;
    return hypot(px - ex, py - ey);
}

static float incidence(int side, float a) {
    float raw;
    if (side == SIDE_WEST) raw = M_PI_F / 2 - (a - M_PI_F - M_PI_F / 2);
    else if (side == SIDE_EAST) raw = M_PI_F / 2 - (a - M_PI_F / 2);
    else if (side == SIDE_NORTH) raw = M_PI_F / 2 - a;
    else raw = M_PI_F / 2 - (a - M_PI_F);
    return asin(clamp(sin(raw), 0.0f, 1.0f));
}

static uint wall_color(uchar s) {
    if (s == 'r') return 0xFF2222;
    if (s == 'g') return 0x22FF22;
    if (s == 'b') return 0x2222FF;
    return 0x222222;
}

static uint lerp_color(uint c1, uint c2, float t) {
    uint out = 0;
    for (int shift = 16; shift >= 0; shift -= 8) {
        float a = (float)((c1 >> shift) & 0xFF);
        float b = (float)((c2 >> shift) & 0xFF);
        out |= ((uint)(a * (1.0f - t) + b * t) & 0xFF) << shift;
    }
    return out;
}

static float fog_amount(float d) {
    if (!(d > MIN_FOG)) return 0.0f;
    return fmin((d - MIN_FOG) / (MAX_FOG - MIN_FOG), MAX_FOG_AMOUNT);
}

static uint background(int y, int h) {
    if (y < h / 2) return SKY_COLOR;
    float depth = (float)h / (((float)y - (float)h / 2.0f) * 2.0f);
    float fog = fog_amount(depth);
    if (fog > 0.0f) return lerp_color(FLOOR_COLOR, SKY_COLOR, fog);
    return FLOOR_COLOR;
}

__kernel void render_column(
    __global const uchar* cells,
    const int map_width,
    const int map_height,
    const float scale,
    const float pos_x,
    const float pos_y,
    const float player_angle,
    const float focal,
    const int width,
    const int height,
    __global uchar* frame,
    __global int* hits)
{
    int col = get_global_id(0);
    if (col >= width) return;

    float angle = player_angle + atan((float)(col - width / 2) / focal);
    float nudge = CORNER_NUDGE;
    march_result h;
    float dx, dy;
    int resolved = 0;
    for (int attempt = 0; attempt <= MAX_CORNER_RETRIES; attempt++) {
        dx = -sin(angle);
        dy = cos(angle);
        h = march(cells, map_width, map_height, scale, pos_x, pos_y, dx, dy, 0);
        if (!h.corner) { resolved = 1; break; }
        angle -= nudge;
        nudge /= 2.0f;
    }
    if (!resolved) {
        angle = player_angle + atan((float)(col - width / 2) / focal);
        dx = -sin(angle);
        dy = cos(angle);
        h = march(cells, map_width, map_height, scale, pos_x, pos_y, dx, dy, 1);
    }

    uint wall = 0;
    int wall_height = 0;
    if (h.hit) {
        float depth = fabs(cos(player_angle - angle) *
            edge_distance(h, scale, pos_x, pos_y, dx, dy) / scale);
        wall = lerp_color(0xFFFFFF, wall_color(h.symbol), sqrt(sin(incidence(h.side, angle))));
        float fog = fog_amount(depth);
        if (fog > 0.0f) wall = lerp_color(wall, SKY_COLOR, fog);
        float wh = (float)height / depth;
        wall_height = wh < (float)MAX_WALL_HEIGHT ? (int)wh : MAX_WALL_HEIGHT;
    }
    hits[col * 2] = h.hit ? h.cx : -1;
    hits[col * 2 + 1] = h.hit ? h.cy : -1;

    int top = (height - wall_height) / 2;
    for (int y = 0; y < height; y++) {
        uint c = (y > top && y < wall_height + top) ? wall : background(y, height);
        int i = (y * width + col) * 3;
        frame[i] = (uchar)(c >> 16);
        frame[i + 1] = (uchar)(c >> 8);
        frame[i + 2] = (uchar)c;
    }
}
`

// kernelDefines bakes the engine constants into the program build options.
func kernelDefines(maxSteps int) string {
	defs := []string{
		fmt.Sprintf("-DRAY_DETAIL=%.1ff", float64(rayDetail)),
		fmt.Sprintf("-DMAX_STEPS=%d", maxSteps),
		fmt.Sprintf("-DCORNER_TOLERANCE=%gf", 1e-5),
		fmt.Sprintf("-DCORNER_NUDGE=%gf", cornerNudge),
		fmt.Sprintf("-DMAX_CORNER_RETRIES=%d", maxCornerRetries),
		fmt.Sprintf("-DMIN_FOG=%.1ff", minFogDistance),
		fmt.Sprintf("-DMAX_FOG=%.1ff", maxFogDistance),
		fmt.Sprintf("-DMAX_FOG_AMOUNT=%.1ff", maxFogAmount),
		fmt.Sprintf("-DSKY_COLOR=0x%06Xu", uint32(skyColor)),
		fmt.Sprintf("-DFLOOR_COLOR=0x%06Xu", uint32(floorColor)),
		fmt.Sprintf("-DMAX_WALL_HEIGHT=%d", maxWallHeight),
	}
	return strings.Join(defs, " ")
}

func newOpenCLRenderer(world *gridMap, cam camera, frame *frameBuffer) (*openCLRenderer, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	r := &openCLRenderer{
		frame:      frame,
		cam:        cam,
		hostHits:   make([]int32, cam.width*2),
		hits:       make([]intPoint, cam.width),
		deviceName: device.Name(),
	}
	if err := r.setup(device, world); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// setup builds the program and uploads the map. On error the caller releases
// whatever was created.
func (r *openCLRenderer) setup(device *cl.Device, world *gridMap) error {
	var err error
	if r.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if r.queue, err = r.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if r.program, err = r.context.CreateProgramWithSource([]string{columnKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	// A ray can cross the whole map diagonally; bound the march by that.
	maxSteps := world.maxMarchSteps()
	if err := r.program.BuildProgram([]*cl.Device{device}, kernelDefines(maxSteps)); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if r.kernel, err = r.program.CreateKernel("render_column"); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}

	cells := world.cells
	if r.mapBuf, err = r.context.CreateEmptyBuffer(cl.MemReadOnly, len(cells)); err != nil {
		return fmt.Errorf("allocating map buffer: %w", err)
	}
	if r.frameBuf, err = r.context.CreateEmptyBuffer(cl.MemWriteOnly, len(r.frame.pix)); err != nil {
		return fmt.Errorf("allocating frame buffer: %w", err)
	}
	hitBytes := len(r.hostHits) * int(unsafe.Sizeof(int32(0)))
	if r.hitBuf, err = r.context.CreateEmptyBuffer(cl.MemWriteOnly, hitBytes); err != nil {
		return fmt.Errorf("allocating hit buffer: %w", err)
	}
	if _, err := r.queue.EnqueueWriteBuffer(r.mapBuf, true, 0, len(cells), unsafe.Pointer(&cells[0]), nil); err != nil {
		return fmt.Errorf("writing map buffer: %w", err)
	}

	if err := r.kernel.SetArgs(
		r.mapBuf,
		int32(world.width),
		int32(world.height),
		float32(world.scale),
		float32(0),
		float32(0),
		float32(0),
		float32(r.cam.focal),
		int32(r.cam.width),
		int32(r.cam.height),
		r.frameBuf,
		r.hitBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	return nil
}

// Render updates the view arguments, runs the kernel and blocks until the
// frame and hit cells are back on the host.
func (r *openCLRenderer) Render(view viewState) error {
	if err := r.kernel.SetArgFloat32(4, float32(view.pos.x)); err != nil {
		return fmt.Errorf("setting view x: %w", err)
	}
	if err := r.kernel.SetArgFloat32(5, float32(view.pos.y)); err != nil {
		return fmt.Errorf("setting view y: %w", err)
	}
	if err := r.kernel.SetArgFloat32(6, float32(view.angle)); err != nil {
		return fmt.Errorf("setting view angle: %w", err)
	}
	if _, err := r.queue.EnqueueNDRangeKernel(r.kernel, nil, []int{r.cam.width}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	pix := r.frame.pix
	if _, err := r.queue.EnqueueReadBuffer(r.frameBuf, true, 0, len(pix), unsafe.Pointer(&pix[0]), nil); err != nil {
		return fmt.Errorf("reading frame buffer: %w", err)
	}
	hitBytes := len(r.hostHits) * int(unsafe.Sizeof(int32(0)))
	if _, err := r.queue.EnqueueReadBuffer(r.hitBuf, true, 0, hitBytes, unsafe.Pointer(&r.hostHits[0]), nil); err != nil {
		return fmt.Errorf("reading hit buffer: %w", err)
	}
	for i := range r.hits {
		r.hits[i] = intPoint{x: int(r.hostHits[i*2]), y: int(r.hostHits[i*2+1])}
	}
	return nil
}

func (r *openCLRenderer) Hits() []intPoint { return r.hits }

func (r *openCLRenderer) Name() string { return "opencl (" + r.deviceName + ")" }

func (r *openCLRenderer) Close() {
	if r.hitBuf != nil {
		r.hitBuf.Release()
		r.hitBuf = nil
	}
	if r.frameBuf != nil {
		r.frameBuf.Release()
		r.frameBuf = nil
	}
	if r.mapBuf != nil {
		r.mapBuf.Release()
		r.mapBuf = nil
	}
	if r.kernel != nil {
		r.kernel.Release()
		r.kernel = nil
	}
	if r.program != nil {
		r.program.Release()
		r.program = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.context != nil {
		r.context.Release()
		r.context = nil
	}
}
