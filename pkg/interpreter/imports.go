package interpreter

import (
	"fmt"
	"math"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

// Libraries names the modules an import statement can install.
func (i *Interpreter) Libraries() []string {
	names := make([]string, 0, len(i.libraries))
	for name := range i.libraries {
		names = append(names, name)
	}
	return names
}

func (i *Interpreter) initLibraries() {
	i.libraries["time"] = []runtime.NativeFunctionValue{
		{Name: "time_time", Arity: 0, Impl: timeTime},
		{Name: "time_sleep", Arity: -1, Impl: timeSleep},
	}
}

// timeTime returns seconds since the Unix epoch.
func timeTime(ctx *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	now := ctx.Now()
	return runtime.FloatValue{Val: float64(now.Unix()) + float64(now.Nanosecond())/float64(time.Second)}, nil
}

// maxSleepSeconds bounds sleeps to what a time.Duration can hold.
var maxSleepSeconds = float64(math.MaxInt64) / float64(time.Second)

// timeSleep blocks for the given number of seconds, one when omitted.
func timeSleep(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("time_sleep expects at most 1 argument, got %d", len(args))
	}
	seconds := 1.0
	if len(args) == 1 {
		if !isNumeric(args[0]) {
			return nil, fmt.Errorf("time_sleep expects a number, got %s", args[0].Kind())
		}
		seconds = toFloat(args[0])
	}
	if seconds < 0 {
		return nil, fmt.Errorf("time_sleep: negative duration")
	}
	if math.IsNaN(seconds) || seconds >= maxSleepSeconds {
		return nil, fmt.Errorf("time_sleep: duration out of range")
	}
	ctx.Sleep(time.Duration(seconds * float64(time.Second)))
	return runtime.VoidValue{}, nil
}
