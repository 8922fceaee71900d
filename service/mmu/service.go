package mmu

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/viant/kernelsim/kernel"
)

// MB is the number of bytes in one megabyte of simulated memory.
const MB = 1 << 20

type segment struct {
	base int
	size int
}

func (s segment) end() int {
	return s.base + s.size
}

// Service is a contiguous base/limit memory manager. Every process gets one
// segment, placed into the first free hole large enough to hold it.
type Service struct {
	size        int
	holes       []segment
	allocations map[kernel.PID]segment
	logger      logrus.FieldLogger
}

// Size returns the total physical memory in bytes.
func (s *Service) Size() int {
	return s.size
}

// Free returns the number of unallocated bytes.
func (s *Service) Free() int {
	ret := 0
	for _, hole := range s.holes {
		ret += hole.size
	}
	return ret
}

// Reserve allocates size bytes for pid using first fit.
func (s *Service) Reserve(pid kernel.PID, size int) bool {
	if size <= 0 {
		return false
	}
	if _, ok := s.allocations[pid]; ok {
		return false
	}
	for i, hole := range s.holes {
		if hole.size < size {
			continue
		}
		allocated := segment{base: hole.base, size: size}
		s.allocations[pid] = allocated
		if hole.size == size {
			s.holes = append(s.holes[:i], s.holes[i+1:]...)
		} else {
			s.holes[i] = segment{base: hole.base + size, size: hole.size - size}
		}
		s.logger.WithFields(logrus.Fields{"pid": pid, "base": allocated.base, "size": size}).Debug("reserved")
		return true
	}
	s.logger.WithFields(logrus.Fields{"pid": pid, "size": size, "free": s.Free()}).Debug("reservation failed")
	return false
}

// Translate maps a virtual address of pid to a physical one. Addresses
// outside the process segment fault.
func (s *Service) Translate(address int, pid kernel.PID) (int, bool) {
	allocated, ok := s.allocations[pid]
	if !ok || address < 0 || address >= allocated.size {
		return 0, false
	}
	return allocated.base + address, true
}

// Release frees the segment of pid, merging it with adjacent holes.
func (s *Service) Release(pid kernel.PID) bool {
	allocated, ok := s.allocations[pid]
	if !ok {
		return false
	}
	delete(s.allocations, pid)
	s.holes = append(s.holes, allocated)
	sort.Slice(s.holes, func(i, j int) bool { return s.holes[i].base < s.holes[j].base })
	merged := s.holes[:1]
	for _, hole := range s.holes[1:] {
		last := &merged[len(merged)-1]
		if last.end() == hole.base {
			last.size += hole.size
			continue
		}
		merged = append(merged, hole)
	}
	s.holes = merged
	s.logger.WithFields(logrus.Fields{"pid": pid, "base": allocated.base, "size": allocated.size}).Debug("released")
	return true
}

// New creates a memory manager holding size bytes.
func New(size int, options ...Option) *Service {
	ret := &Service{
		size:        size,
		allocations: make(map[kernel.PID]segment),
		logger:      logrus.StandardLogger(),
	}
	if size > 0 {
		ret.holes = []segment{{base: 0, size: size}}
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

var _ kernel.MMU = (*Service)(nil)
