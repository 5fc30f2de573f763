// Package jobstate maps vendor-reported job states to display metadata.
package jobstate

import "laundry-reservation/internal/model"

// Info is the display tuple for a job state.
type Info struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// None is returned for unknown or missing states.
var None = Info{Label: "대기", Color: "gray", Icon: "○", Description: "작동하지 않는 상태입니다."}

var washer = map[string]Info{
	"none":          None,
	"initial":       {Label: "준비", Color: "gray", Icon: "◌", Description: "세탁을 준비하고 있습니다."},
	"detecting":     {Label: "감지", Color: "blue", Icon: "◎", Description: "세탁물을 감지하고 있습니다."},
	"weightSensing": {Label: "무게 감지", Color: "blue", Icon: "⚖", Description: "세탁물 무게를 측정하고 있습니다."},
	"soaking":       {Label: "불림", Color: "cyan", Icon: "≈", Description: "세탁물을 불리고 있습니다."},
	"wash":          {Label: "세탁", Color: "blue", Icon: "🌀", Description: "세탁 중입니다."},
	"rinse":         {Label: "헹굼", Color: "cyan", Icon: "💧", Description: "헹구는 중입니다."},
	"spin":          {Label: "탈수", Color: "purple", Icon: "⟳", Description: "탈수 중입니다."},
	"drying":        {Label: "건조", Color: "orange", Icon: "♨", Description: "건조 중입니다."},
	"steam":         {Label: "스팀", Color: "orange", Icon: "☁", Description: "스팀 케어 중입니다."},
	"cooling":       {Label: "냉각", Color: "cyan", Icon: "❄", Description: "냉각 중입니다."},
	"end":           {Label: "완료", Color: "green", Icon: "✔", Description: "세탁이 끝났습니다. 세탁물을 수거해 주세요."},
	"reserved":      {Label: "예약", Color: "yellow", Icon: "⏲", Description: "예약된 기기입니다."},
	"pause":         {Label: "일시정지", Color: "yellow", Icon: "⏸", Description: "일시정지 상태입니다."},
	"standby":       {Label: "대기", Color: "gray", Icon: "…", Description: "시작을 기다리고 있습니다."},
	"error":         {Label: "오류", Color: "red", Icon: "⚠", Description: "기기에 오류가 발생했습니다."},
}

var dryer = map[string]Info{
	"none":           None,
	"initial":        {Label: "준비", Color: "gray", Icon: "◌", Description: "건조를 준비하고 있습니다."},
	"detecting":      {Label: "감지", Color: "blue", Icon: "◎", Description: "건조물을 감지하고 있습니다."},
	"drying":         {Label: "건조", Color: "orange", Icon: "♨", Description: "건조 중입니다."},
	"cooling":        {Label: "냉각", Color: "cyan", Icon: "❄", Description: "냉각 중입니다."},
	"wrinkleCare":    {Label: "구김 방지", Color: "purple", Icon: "〰", Description: "구김 방지 동작 중입니다."},
	"steam":          {Label: "스팀", Color: "orange", Icon: "☁", Description: "스팀 케어 중입니다."},
	"smartDiagnosis": {Label: "진단", Color: "blue", Icon: "🔍", Description: "스마트 진단 중입니다."},
	"end":            {Label: "완료", Color: "green", Icon: "✔", Description: "건조가 끝났습니다. 건조물을 수거해 주세요."},
	"reserved":       {Label: "예약", Color: "yellow", Icon: "⏲", Description: "예약된 기기입니다."},
	"pause":          {Label: "일시정지", Color: "yellow", Icon: "⏸", Description: "일시정지 상태입니다."},
	"error":          {Label: "오류", Color: "red", Icon: "⚠", Description: "기기에 오류가 발생했습니다."},
}

// Lookup returns the display info for state on a machine of type t. It never fails.
func Lookup(t model.MachineType, state string) Info {
	var table map[string]Info
	switch t {
	case model.MachineTypeWashing:
		table = washer
	case model.MachineTypeDryer:
		table = dryer
	default:
		return None
	}
	if info, ok := table[state]; ok {
		return info
	}
	return None
}

// States lists the declared states for a machine type.
func States(t model.MachineType) []string {
	var table map[string]Info
	switch t {
	case model.MachineTypeWashing:
		table = washer
	case model.MachineTypeDryer:
		table = dryer
	}
	states := make([]string, 0, len(table))
	for s := range table {
		states = append(states, s)
	}
	return states
}
