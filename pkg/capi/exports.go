// Package main provides C-compatible functions for building a shared library.
// Build with: go build -buildmode=c-shared -o libhandcricket.so ./pkg/capi
//
// Every call works on one process-wide match. Functions return 0 on
// success and -1 on failure; hc_last_error describes the failure. JSON
// results must be released with hc_free_string.
package main

/*
#include <stdlib.h>
#include <stdint.h>
*/
import "C"
import (
	"unsafe"
)

//export hc_version
func hc_version() *C.char {
	return C.CString("0.1.0")
}

//export hc_last_error
func hc_last_error() *C.char {
	msg := getError()
	if msg == "" {
		return nil
	}
	return C.CString(msg)
}

//export hc_init
func hc_init(seed C.int64_t, prompt C.int) C.int {
	initMatch(int64(seed), prompt != 0)
	setError(nil)
	return 0
}

//export hc_shutdown
func hc_shutdown() {
	shutdown()
}

//export hc_select_team
func hc_select_team(name, role *C.char) C.int {
	return C.int(selectTeam(C.GoString(name), C.GoString(role)))
}

//export hc_confirm_teams
func hc_confirm_teams() C.int {
	return C.int(confirmTeams())
}

//export hc_toss
func hc_toss(resultJSON **C.char) C.int {
	out, rc := runToss()
	*resultJSON = C.CString(out)
	return C.int(rc)
}

//export hc_decide
func hc_decide(decision *C.char) C.int {
	return C.int(decide(C.GoString(decision)))
}

//export hc_select
func hc_select(playersJSON *C.char) C.int {
	players := ""
	if playersJSON != nil {
		players = C.GoString(playersJSON)
	}
	return C.int(selectPlayers(players))
}

//export hc_play_ball
func hc_play_ball(choice C.int, resultJSON **C.char) C.int {
	out, rc := playBall(int(choice))
	*resultJSON = C.CString(out)
	return C.int(rc)
}

//export hc_state
func hc_state(resultJSON **C.char) C.int {
	out, rc := matchState()
	*resultJSON = C.CString(out)
	return C.int(rc)
}

//export hc_summary
func hc_summary(resultJSON **C.char) C.int {
	out, rc := matchSummary()
	*resultJSON = C.CString(out)
	return C.int(rc)
}

//export hc_reset
func hc_reset() C.int {
	return C.int(resetMatch())
}

//export hc_free_string
func hc_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}
