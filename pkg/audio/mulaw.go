// Package audio converts between the telephony wire format and the
// linear PCM the speech APIs consume.
//
// Twilio media streams carry 8-bit G.711 μ-law at 8kHz mono. The
// transcription API wants 16-bit linear PCM in a WAV container, so
// inbound segments are expanded before upload. Synthesis is requested
// as ulaw_8000 so outbound audio goes back on the wire untouched.
package audio

// mulawBias is the G.711 μ-law encoding bias.
const mulawBias = 0x84

// mulawClip is the maximum magnitude representable before encoding.
const mulawClip = 32635

// DecodeMulawSample expands one μ-law byte to a 16-bit linear sample.
func DecodeMulawSample(u byte) int16 {
	u = ^u
	sign := u & 0x80
	exponent := (u >> 4) & 0x07
	mantissa := u & 0x0F

	sample := ((int16(mantissa) << 3) + mulawBias) << exponent
	sample -= mulawBias

	if sign != 0 {
		return -sample
	}
	return sample
}

// EncodeMulawSample compresses one 16-bit linear sample to μ-law.
func EncodeMulawSample(s int16) byte {
	var sign byte
	v := int32(s)
	if v < 0 {
		v = -v
		sign = 0x80
	}
	if v > mulawClip {
		v = mulawClip
	}
	v += mulawBias

	exponent := byte(7)
	for mask := int32(0x4000); v&mask == 0 && exponent > 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte(v>>(exponent+3)) & 0x0F

	return ^(sign | exponent<<4 | mantissa)
}

// DecodeMulaw expands μ-law bytes to PCM16 little-endian bytes.
// Output is exactly twice the input length.
func DecodeMulaw(data []byte) []byte {
	pcm := make([]byte, len(data)*2)
	for i, u := range data {
		s := DecodeMulawSample(u)
		pcm[i*2] = byte(s)
		pcm[i*2+1] = byte(s >> 8)
	}
	return pcm
}

// EncodeMulaw compresses PCM16 little-endian bytes to μ-law.
// A trailing odd byte is ignored.
func EncodeMulaw(pcm []byte) []byte {
	out := make([]byte, len(pcm)/2)
	for i := range out {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		out[i] = EncodeMulawSample(s)
	}
	return out
}
