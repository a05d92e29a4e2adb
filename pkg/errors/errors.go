package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 调用方重新读取最新状态后可自行决定是否重试
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
