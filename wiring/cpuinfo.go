// Contains a helper function for getting named properties out of the /proc/cpuinfo file.
// The file is only read once. Duplicate properties are overridden, so on multi-processor
// systems the values will generally be those for the last processor.

package wiring

import (
	"bufio"
	"os"
	"strings"
)

var cpuInfoPath = "/proc/cpuinfo"

var cpuInfo map[string]string

func CpuInfo(property string) string {
	if cpuInfo == nil {
		cpuInfo = loadCpuInfo(cpuInfoPath)
	}
	return cpuInfo[property]
}

func loadCpuInfo(path string) map[string]string {
	result := make(map[string]string)

	file, e := os.Open(path)
	if e != nil {
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		// split on the first colon, and trim both sides
		i := strings.Index(line, ":")
		if i >= 0 {
			name := strings.Trim(line[0:i], " \t")
			value := strings.Trim(line[i+1:], " \t")
			result[name] = value
		}
	}

	if e := scanner.Err(); e != nil {
		logger.Error().Err(e).Str("path", path).Msg("reading cpuinfo")
	}
	return result
}
