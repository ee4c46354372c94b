package apu

// LengthCounters maps the 5-bit length index of a reg3 write to the length
// counter reload value.
var LengthCounters = [32]int{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// NoisePeriods maps the 4-bit noise period index to a timer period in CPU
// cycles.
var NoisePeriods = [16]int{
	2, 4, 8, 16, 32, 48, 64, 80, 101, 127, 190, 254, 381, 508, 1017, 2034,
}

// DMCperiods maps the 4-bit DMC rate index to a fetch timer period in CPU
// cycles.
var DMCperiods = [16]int{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

// dutySequences packs the four 8-step pulse waveforms into one 32-bit word;
// bit (phase%8 + duty*8) selects the output.
const dutySequences = 0xF33C0C04
