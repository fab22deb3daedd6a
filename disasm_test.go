package ch8_test

import (
	"testing"

	"github.com/guslan/ch8"
	"github.com/stretchr/testify/assert"
)

func TestInstructionString(t *testing.T) {
	cases := map[uint16]string{
		0x0000: "EXIT",
		0x00E0: "CLS",
		0x00EE: "RET",
		0x0123: "SYS 0x123",
		0x1ABC: "JP 0xABC",
		0x2300: "CALL 0x300",
		0x3A12: "SE VA, 0x12",
		0x4B34: "SNE VB, 0x34",
		0x5120: "SE V1, V2",
		0x5121: "DW 0x5121",
		0x6F01: "LD VF, 0x01",
		0x70FF: "ADD V0, 0xFF",
		0x8124: "ADD V1, V2",
		0x8126: "SHR V1",
		0x812E: "SHL V1",
		0x8128: "DW 0x8128",
		0x9340: "SNE V3, V4",
		0xA2F0: "LD I, 0x2F0",
		0xB200: "JP V0, 0x200",
		0xC80F: "RND V8, 0x0F",
		0xD125: "DRW V1, V2, 5",
		0xE59E: "SKP V5",
		0xE5A1: "SKNP V5",
		0xE5FF: "DW 0xE5FF",
		0xF30A: "LD V3, K",
		0xF233: "LD B, V2",
		0xF555: "LD [I], V5",
		0xF565: "LD V5, [I]",
		0xF5FF: "DW 0xF5FF",
	}

	for word, want := range cases {
		assert.Equalf(t, want, ch8.Instruction(word).String(), "0x%04X", word)
	}
}

func TestDisassemble(t *testing.T) {
	program := []byte{
		0x60, 0x05,
		0x00, 0x00,
		0xAB,
	}

	assert.Equal(t, []string{
		"200: 6005  LD V0, 0x05",
		"202: 0000  EXIT",
		"204: AB    DB 0xAB",
	}, ch8.Disassemble(program))
}
