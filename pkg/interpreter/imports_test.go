package interpreter

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestImportTimeInstallsIntoCurrentFrame(t *testing.T) {
	interp, out := newTestInterpreter()
	var slept []time.Duration
	interp.SetClock(
		func() time.Time { return time.Unix(1700000000, 500000000) },
		func(d time.Duration) { slept = append(slept, d) },
	)
	src := `func timed():
    import time
    time_sleep(2)
    time_sleep()
    return time_time()
printline(timed())
`
	if err := runSource(t, interp, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "1700000000.5\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(slept) != 2 || slept[0] != 2*time.Second || slept[1] != time.Second {
		t.Fatalf("unexpected sleeps %v", slept)
	}
	if _, err := interp.GlobalEnvironment().Get("time_time"); err == nil {
		t.Fatalf("import inside a function should not bind globally")
	}
}

func TestImportByStringPath(t *testing.T) {
	interp, _ := newTestInterpreter()
	interp.SetClock(nil, func(time.Duration) {})
	if err := runSource(t, interp, "import \"time\"\ntime_sleep(0)\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnknownImportIsIgnored(t *testing.T) {
	interp, _ := newTestInterpreter()
	if err := runSource(t, interp, "import math\nimport \"lib/thing\"\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(interp.Libraries()) != 1 {
		t.Fatalf("expected only the time library, got %v", interp.Libraries())
	}
}

func TestTimeSleepRejectsBadArguments(t *testing.T) {
	interp, _ := newTestInterpreter()
	interp.SetClock(nil, func(time.Duration) {})
	err := runSource(t, interp, "import time\ntime_sleep(\"x\")\n")
	if err == nil || !strings.Contains(err.Error(), "time_sleep expects a number") {
		t.Fatalf("unexpected error %v", err)
	}
	err = runSource(t, interp, "time_time(1)\n")
	if err == nil || !strings.Contains(err.Error(), "time_time expects 0 arguments, got 1") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestInputline(t *testing.T) {
	interp, out := newTestInterpreter()
	interp.SetInput(strings.NewReader("alice\nbob"))
	src := `local a = inputline("name? ")
local b = inputline()
printline(a, b)
`
	if err := runSource(t, interp, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "name? alice bob\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := runSource(t, interp, "inputline()"); err == nil {
		t.Fatalf("expected error at end of input")
	}
}

func TestTimeSleepRejectsDurationsBeyondRange(t *testing.T) {
	interp, _ := newTestInterpreter()
	slept := false
	interp.SetClock(nil, func(time.Duration) { slept = true })
	err := runSource(t, interp, "import time\ntime_sleep(10000000000)\n")
	if err == nil || !strings.Contains(err.Error(), "time_sleep: duration out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if slept {
		t.Fatalf("sleeper should not run for an out of range duration")
	}
	if err := runSource(t, interp, "time_sleep(9000000000)\n"); err != nil {
		t.Fatalf("expected the largest representable sleeps to be accepted: %v", err)
	}
}

func TestInputlineUsesLineReader(t *testing.T) {
	interp, out := newTestInterpreter()
	interp.SetInput(strings.NewReader("from stdin\n"))
	var prompts []string
	lines := []string{"ada", "lovelace\r\n"}
	interp.SetLineReader(func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	})
	src := `local a = inputline("first? ")
local b = inputline()
printline(a, b)
`
	if err := runSource(t, interp, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "ada lovelace\n" {
		t.Fatalf("prompt should go to the line reader, got output %q", out.String())
	}
	if len(prompts) != 2 || prompts[0] != "first? " || prompts[1] != "" {
		t.Fatalf("unexpected prompts %q", prompts)
	}
	if err := runSource(t, interp, "inputline()\n"); err == nil || !strings.Contains(err.Error(), "inputline: EOF") {
		t.Fatalf("expected EOF from the line reader, got %v", err)
	}

	out.Reset()
	interp.SetInput(strings.NewReader("from stdin\n"))
	if err := runSource(t, interp, "printline(inputline())\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "from stdin\n" {
		t.Fatalf("SetInput should replace the line reader, got %q", out.String())
	}
}
