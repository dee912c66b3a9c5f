package service

import (
	"math"
	"strconv"
)

var byteSizeUnits = []string{"B", "KB", "MB", "GB", "TB", "EB"}

// humanReadableByteSize 把字节数转成带单位的短字符串，向零截断不四舍五入。
// 单位表到 EB 为止，需要更大单位的输入不在契约范围内。
func humanReadableByteSize(size float64) string {
	if size <= 0 {
		return "0"
	}
	digitGroups := int(math.Log(size) / math.Log(1024))
	value := int64(size / math.Pow(1024, float64(digitGroups)))
	return strconv.FormatInt(value, 10) + byteSizeUnits[digitGroups]
}
