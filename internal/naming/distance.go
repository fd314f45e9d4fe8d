package naming

// Distance 两个字符串之间的 Levenshtein 编辑距离（插入/删除/替换代价均为 1）
func Distance(a, b string) int {
	d, _ := BoundedDistance(a, b, -1)
	return d
}

// BoundedDistance 计算编辑距离，bound >= 0 时一旦整行都超过 bound 就提前返回 (bound+1, false)。
// bound < 0 表示不设上限。
func BoundedDistance(a, b string, bound int) (int, bool) {
	la, lb := len(a), len(b)
	if bound >= 0 && abs(la-lb) > bound {
		return bound + 1, false
	}
	if la == 0 {
		return lb, true
	}
	if lb == 0 {
		return la, true
	}

	// 单行 DP
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if bound >= 0 && rowMin > bound {
			return bound + 1, false
		}
		prev, curr = curr, prev
	}
	if bound >= 0 && prev[lb] > bound {
		return bound + 1, false
	}
	return prev[lb], true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
