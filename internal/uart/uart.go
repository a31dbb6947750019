// Package uart is the NS16550A-compatible UART0 driver, one of
// spec.md §6's "external collaborators" (uart_init/uart_putc/
// uart_getc/uart_handle_interrupt) implemented as a real package
// rather than left as a narrow stub.
//
// Grounded on the teacher's PL011 register-banging shape
// (src/go/mazarin/kernel.go's uartInit/uartPutc/uartGetc,
// src/mazboot/golang/main/uart_qemu.go's QEMU-base-address variant:
// init by writing a control register then polling a flag register
// before every byte), re-targeted from PL011's IBRD/FBRD/LCRH/CR/FR
// register set to the NS16550A layout QEMU's `virt` machine actually
// exposes at UART0 (spec.md §6 "UART0: 0x1000_0000, 4 KiB"). Register
// access is split by build tag the same way internal/clint and
// internal/plic are.
package uart

// Base is UART0's physical base address (spec.md §6).
const Base uintptr = 0x1000_0000

// NS16550A register offsets (byte-addressed, DLAB=0 view).
const (
	regRBR = 0 // receiver buffer (read)
	regTHR = 0 // transmitter holding (write)
	regIER = 1 // interrupt enable
	regIIR = 2 // interrupt identification (read)
	regFCR = 2 // FIFO control (write)
	regLCR = 3 // line control
	regMCR = 4 // modem control
	regLSR = 5 // line status
)

const (
	lsrDataReady = 1 << 0
	lsrThrEmpty  = 1 << 5

	ierRxAvailable = 1 << 0
)

// rxQueue is the ring buffer HandleInterrupt fills and Getc drains,
// sized generously past the 16-byte 16550A FIFO so a burst of
// interrupts between two Getc calls rarely fills it; bytes that
// arrive while it is full are dropped.
const rxQueueSize = 256

var rxQueue [rxQueueSize]byte
var rxHead, rxTail int

// Init brings UART0 up: 8N1, FIFOs enabled, receive-data-available
// interrupt unmasked (spec.md §4.4 "supervisor external -> PLIC
// dispatch... registered handler (e.g., UART)").
func Init() {
	store8(regIER, 0) // mask everything while configuring
	store8(regFCR, 0x07) // enable + clear FIFOs
	store8(regLCR, 0x03) // 8 data bits, 1 stop, no parity
	store8(regMCR, 0)
	store8(regIER, ierRxAvailable)
}

// Putc blocks until the transmit holding register is empty, then
// writes c (spec.md's uart_putc).
func Putc(c byte) {
	for load8(regLSR)&lsrThrEmpty == 0 {
	}
	store8(regTHR, c)
}

// WriteString writes every byte of s via Putc, translating a bare '\n'
// to "\r\n" the way a serial terminal expects.
func WriteString(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			Putc('\r')
		}
		Putc(s[i])
	}
}

// Getc returns the next received byte, blocking (busy-waiting on the
// ring buffer HandleInterrupt fills) until one arrives. Usable before
// plic.Init runs, since an empty queue simply falls through to polling
// the line status register directly.
func Getc() byte {
	for {
		if c, ok := popRx(); ok {
			return c
		}
		if load8(regLSR)&lsrDataReady != 0 {
			return load8(regRBR)
		}
	}
}

// HandleInterrupt is plic.Handler's shape, registered via
// plic.Register(plic.IRQUart0, uart.HandleInterrupt): drains every
// byte the FIFO currently holds into the ring buffer (spec.md
// "uart_handle_interrupt(tf)").
func HandleInterrupt(irq uint32) {
	for load8(regLSR)&lsrDataReady != 0 {
		pushRx(load8(regRBR))
	}
}

func pushRx(b byte) {
	next := (rxTail + 1) % rxQueueSize
	if next == rxHead {
		return // queue full; drop rather than block an interrupt handler
	}
	rxQueue[rxTail] = b
	rxTail = next
}

func popRx() (byte, bool) {
	if rxHead == rxTail {
		return 0, false
	}
	b := rxQueue[rxHead]
	rxHead = (rxHead + 1) % rxQueueSize
	return b, true
}
