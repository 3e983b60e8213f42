package scheduler

import (
	"fmt"
	"os/exec"
	"runtime"
)

// DesktopNotify delivers a native OS notification by shelling out to the
// platform's own notifier, the same way internal/audio shells out to a
// sound player. On Linux (notify-send) and Windows (balloon tip) the
// display timeout is 3 seconds; the macOS osascript notification sets no
// timeout and uses the system's own display duration.
func DesktopNotify(summary, body string) error {
	name, args := notifyCommand(summary, body)
	return exec.Command(name, args...).Run()
}

func notifyCommand(summary, body string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, summary)
		return "osascript", []string{"-e", script}
	case "windows":
		script := fmt.Sprintf(
			"[reflection.assembly]::loadwithpartialname('System.Windows.Forms');"+
				"(New-Object System.Windows.Forms.NotifyIcon -Property @{Visible=$true;Icon=[System.Drawing.SystemIcons]::Information}).ShowBalloonTip(3000,%q,%q,[System.Windows.Forms.ToolTipIcon]::None)",
			summary, body)
		return "powershell", []string{"-c", script}
	default:
		return "notify-send", []string{"-t", "3000", summary, body}
	}
}
